package handler

// Response helpers. Every API response — success or failure — carries the
// same envelope shape with a "success" flag, so clients branch on one field
// regardless of status code. The error path maps domain errors to HTTP in
// exactly one place; handlers never pick status codes themselves.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/textshare/internal/apperror"
)

// errorResponse is the uniform failure envelope.
//
// IsProtected rides along on 403s so the client can tell "this snippet wants
// a password" apart from other failures without parsing the message. It is
// omitted everywhere else.
type errorResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	IsProtected bool   `json:"isProtected,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be set before the
// first byte of the body goes out — hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into the HTTP envelope.
//
// The two password failures both map to 403 but keep distinct messages and
// the isProtected flag, so clients know whether to prompt for a password or
// report a wrong one. Anything unrecognized becomes a generic 500 — raw
// error text never reaches a client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Message: appErr.Message})
			return
		case errors.Is(err, apperror.ErrPasswordRequired),
			errors.Is(err, apperror.ErrInvalidPassword):
			writeJSON(w, http.StatusForbidden, errorResponse{
				Message:     appErr.Message,
				IsProtected: true,
			})
			return
		case errors.Is(err, apperror.ErrInternal):
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: appErr.Message})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Message: "Something went wrong",
	})
}
