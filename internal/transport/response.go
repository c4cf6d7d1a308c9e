package transport

import (
	"encoding/json"
	"net/http"

	"github.com/ganot/pmdash/internal/mcp"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recoveryHint,omitempty"`
}

var codeStatus = map[string]int{
	"NOT_AUTHENTICATED":     http.StatusUnauthorized,
	"UNAUTHORIZED":          http.StatusUnauthorized,
	"FORBIDDEN":             http.StatusForbidden,
	"NO_WORKSPACE":          http.StatusConflict,
	"NOT_LOADED":            http.StatusConflict,
	"NO_DRAFT":              http.StatusConflict,
	"ASSIGNED_TO_ME_ACTIVE": http.StatusConflict,
	"CONFLICT":              http.StatusConflict,
	"PROJECT_NOT_FOUND":     http.StatusNotFound,
	"PERSON_NOT_FOUND":      http.StatusNotFound,
	"NOT_FOUND":             http.StatusNotFound,
	"NOT_DEMO":              http.StatusConflict,
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_ATTACHMENT":    http.StatusBadRequest,
	"RATE_LIMITED":          http.StatusTooManyRequests,
	"UNREACHABLE":           http.StatusBadGateway,
	"SERVER_ERROR":          http.StatusBadGateway,
}

// WriteResult writes v as a 200 JSON response.
func WriteResult(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

// WriteError writes err using the same codes as the MCP tools.
func WriteError(w http.ResponseWriter, err error) {
	mapped := mcp.MapError(err)
	status, ok := codeStatus[mapped.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:         mapped.Code,
		Message:      mapped.Message,
		Details:      mapped.Details,
		RecoveryHint: mapped.RecoveryHint,
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
