// Package httperr defines the error taxonomy for the JSON API: validation
// failures (400), absence (404), authorization failures (401/403), and a
// catch-all 500 that never leaks internal detail to the client.
package httperr

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error is an error with an associated HTTP status and client-safe message.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Validation returns a 400 error for malformed or missing input.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NotFound returns a 404 error for an absent entity.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Unauthorized returns a 401 error for missing authentication.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden returns a 403 error for insufficient privilege.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// Write sends err as a JSON response. Unclassified errors are logged and
// surfaced as a generic 500; their detail stays server-side.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	he, ok := err.(*Error)
	if !ok {
		slog.Error("unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		he = &Error{Status: http.StatusInternalServerError, Message: "Internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)
	json.NewEncoder(w).Encode(he)
}
