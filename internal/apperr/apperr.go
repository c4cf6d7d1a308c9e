// Package apperr classifies remote failures into the error kinds the
// dashboard engine reacts to.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a coarse error category derived from HTTP status and backend code.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindNetwork      Kind = "network"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

// StatusUnreachable is the status recorded when the remote could not be reached.
const StatusUnreachable = 0

var codeKinds = map[string]Kind{
	"VALIDATION_FAILED": KindValidation,
	"UNAUTHORIZED":      KindUnauthorized,
	"FORBIDDEN":         KindForbidden,
	"NOT_FOUND":         KindNotFound,
	"CONFLICT":          KindConflict,
	"RATE_LIMITED":      KindRateLimited,
	"INTERNAL_ERROR":    KindServer,
	"REQUEST_FAILED":    KindUnknown,
}

// Error is a status-coded failure returned by the remote service.
type Error struct {
	Status      int
	Code        string
	Message     string
	FieldErrors map[string]string
	RequestID   string
	Err         error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.Status)
	}
	return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Info is the classified view of an error.
type Info struct {
	Kind        Kind
	Status      int
	Message     string
	Code        string
	FieldErrors map[string]string
	RequestID   string
}

// KindForStatus maps a bare HTTP status to a kind.
func KindForStatus(status int) Kind {
	switch {
	case status == StatusUnreachable:
		return KindNetwork
	case status == 400 || status == 422:
		return KindValidation
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// FallbackMessage returns the human-readable message used when the backend
// message is empty or generic.
func FallbackMessage(kind Kind) string {
	switch kind {
	case KindValidation:
		return "Please check the form fields."
	case KindUnauthorized:
		return "Authentication required."
	case KindForbidden:
		return "You do not have permission for this action."
	case KindNotFound:
		return "Requested resource was not found."
	case KindConflict:
		return "Conflicting change detected. Refresh and retry."
	case KindRateLimited:
		return "Too many requests. Please wait and try again."
	case KindNetwork:
		return "Cannot reach server. Check backend and try again."
	case KindServer:
		return "Unexpected server error. Please try again."
	default:
		return "Request failed."
	}
}

func isGeneric(message string, kind Kind) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	switch {
	case normalized == "", normalized == "request failed":
		return true
	case kind == KindForbidden && (normalized == "forbidden" || normalized == "not allowed"):
		return true
	case kind == KindUnauthorized && (normalized == "unauthorized" || normalized == "authentication required"):
		return true
	}
	return false
}

// Classify derives the kind and display message for any error. Errors that
// did not come from the remote service classify as unknown with status -1.
func Classify(err error) Info {
	var remoteErr *Error
	if !errors.As(err, &remoteErr) {
		msg := FallbackMessage(KindUnknown)
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		return Info{Kind: KindUnknown, Status: -1, Message: msg}
	}

	kind := KindForStatus(remoteErr.Status)
	if byCode, ok := codeKinds[remoteErr.Code]; ok {
		kind = byCode
	}

	msg := strings.TrimSpace(remoteErr.Message)
	if isGeneric(msg, kind) {
		msg = FallbackMessage(kind)
	}
	return Info{
		Kind:        kind,
		Status:      remoteErr.Status,
		Message:     msg,
		Code:        remoteErr.Code,
		FieldErrors: remoteErr.FieldErrors,
		RequestID:   remoteErr.RequestID,
	}
}

// KindOf is shorthand for Classify(err).Kind.
func KindOf(err error) Kind {
	return Classify(err).Kind
}

// StatusOf returns the HTTP status of a remote error, or -1.
func StatusOf(err error) int {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Status
	}
	return -1
}

// IsForbidden reports whether err classifies as forbidden.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsNotFound reports whether err classifies as not_found.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnauthorized reports whether err classifies as unauthorized.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsConflict reports whether err classifies as conflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// Message returns the display message for err, or fallback when empty.
func Message(err error, fallback string) string {
	info := Classify(err)
	if strings.TrimSpace(info.Message) != "" {
		return info.Message
	}
	if fallback != "" {
		return fallback
	}
	return FallbackMessage(info.Kind)
}
