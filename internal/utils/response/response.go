// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/patients-api/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a patient, a map, a list…).
// Error responses always look like:
//
//	{ "status": "error", "error": "validation failed: field age must be at most 120" }
//
// Validation failures also carry one entry per failing field in "details".
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status  string             `json:"status"` // "ok" or "error"
	Error   string             `json:"error"`  // human-readable error detail
	Details []types.FieldError `json:"details,omitempty"`
}

// Message is the body of informational responses.
type Message struct {
	Message string `json:"message"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError turns a *types.ValidationError into a Response listing
// every failing field.
func ValidationError(err *types.ValidationError) Response {
	return Response{
		Status:  StatusError,
		Error:   err.Error(),
		Details: err.Fields,
	}
}
