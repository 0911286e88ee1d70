package handler

// RESPONSE HELPERS:
// Every success-with-body response declares JSON content type; every error
// response is a JSON object with the same two fields:
//
//	{"error": "card(s)-not-found", "message": "No card(s) found with id(s) [10]."}
//
// The error kind is machine-readable and stable; the message is for humans.
// writeError is where domain errors from the service layer get translated
// to HTTP — the services themselves never see a status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/code-cards/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "reddit-link-failed"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be set before the body — once Encode writes, the headers are
// gone.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status code and sends the
// standard error body.
//
// Mapping:
//
//	ErrValidation    → 400 (missing body fields, missing put id)
//	ErrNotFound      → 404 (card/comment/parent absent)
//	ErrUnprocessable → 422 (unresolvable reddit link, bad parent type)
//	ErrStorage       → 500 (database read/write failure)
//
// errors.Is walks the chain via Unwrap, so wrapped AppErrors still match.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnprocessable):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, apperror.ErrStorage):
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, ErrorResponse{
			Error:   appErr.Kind,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500. The raw message might contain file
	// paths or other internals, so it is never exposed.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal-error",
		Message: "An internal error occurred.",
	})
}
