// Package handlers implements the HTTP handlers for the newsdesk JSON
// API: public article and category reads, authentication, and the
// admin-only write surface.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respond writes v as a JSON response with the given status code.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// Pagination describes the window of a paginated listing alongside the
// total number of rows matching the filter.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
