package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/pmdash/internal/apperr"
	"github.com/ganot/pmdash/internal/dashboard"
	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/session"
	"github.com/ganot/pmdash/internal/domain/user"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/ganot/pmdash/internal/draft"
	"github.com/ganot/pmdash/internal/mutation"
	"github.com/ganot/pmdash/internal/remote"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	err          error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// MapError maps dashboard and remote errors to tool error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	mapped := mapKnown(err)
	mapped.err = err
	return mapped
}

func mapKnown(err error) *APIError {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return &APIError{Code: "NOT_AUTHENTICATED", Message: "not signed in", RecoveryHint: "Call login first"}
	case errors.Is(err, session.ErrNoWorkspace):
		return &APIError{Code: "NO_WORKSPACE", Message: "no active workspace", RecoveryHint: "Call list_workspaces then select_workspace"}
	case errors.Is(err, dashboard.ErrNotLoaded):
		return &APIError{Code: "NOT_LOADED", Message: "workspace data not loaded", RecoveryHint: "Call refresh"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the id with get_dashboard"}
	case errors.Is(err, dashboard.ErrPersonNotFound):
		return &APIError{Code: "PERSON_NOT_FOUND", Message: "person not found", RecoveryHint: "Check the id with get_people_view"}
	case errors.Is(err, draft.ErrNoDraft):
		return &APIError{Code: "NO_DRAFT", Message: "no project selected", RecoveryHint: "Call select_project first"}
	case errors.Is(err, dashboard.ErrAssignedToMe):
		return &APIError{Code: "ASSIGNED_TO_ME_ACTIVE", Message: "Turn off Assigned to me to use random project", RecoveryHint: "Call update_filters with assigned_to_me=false"}
	case errors.Is(err, workspace.ErrNotDemo):
		return &APIError{Code: "NOT_DEMO", Message: err.Error(), RecoveryHint: "Call enter_demo first"}
	case errors.Is(err, remote.ErrUploadTooLarge), errors.Is(err, remote.ErrUploadType):
		return &APIError{Code: "INVALID_ATTACHMENT", Message: err.Error()}
	case errors.Is(err, project.ErrNameRequired),
		errors.Is(err, workspace.ErrNameRequired),
		errors.Is(err, workspace.ErrTokenRequired),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, user.ErrPasswordMismatch),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, mutation.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	}

	info := apperr.Classify(err)
	code := map[apperr.Kind]string{
		apperr.KindValidation:   "INVALID_INPUT",
		apperr.KindUnauthorized: "UNAUTHORIZED",
		apperr.KindForbidden:    "FORBIDDEN",
		apperr.KindNotFound:     "NOT_FOUND",
		apperr.KindConflict:     "CONFLICT",
		apperr.KindRateLimited:  "RATE_LIMITED",
		apperr.KindNetwork:      "UNREACHABLE",
		apperr.KindServer:       "SERVER_ERROR",
	}[info.Kind]
	if code == "" {
		code = "INTERNAL"
	}
	out := &APIError{Code: code, Message: info.Message}
	if len(info.FieldErrors) > 0 {
		out.Details = info.FieldErrors
	}
	switch info.Kind {
	case apperr.KindUnauthorized:
		out.RecoveryHint = "Call login again"
	case apperr.KindNetwork:
		out.RecoveryHint = "Check the backend is running and retry"
	case apperr.KindRateLimited:
		out.RecoveryHint = "Wait and retry"
	}
	return out
}
