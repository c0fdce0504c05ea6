// Package handler contains the HTTP layer: request parsing, response
// encoding, and nothing else. Business rules live in the service.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/textshare/internal/apperror"
	"github.com/sakif/textshare/internal/service"
)

// maxBodyBytes caps request bodies at 1MB, matching the service-side text
// limit.
const maxBodyBytes = 1 << 20

// TextHandler exposes snippet create/read/delete over JSON.
type TextHandler struct {
	texts  *service.TextService
	logger *slog.Logger
}

// NewTextHandler creates a TextHandler.
func NewTextHandler(texts *service.TextService, logger *slog.Logger) *TextHandler {
	return &TextHandler{texts: texts, logger: logger}
}

type createRequest struct {
	Text       string `json:"text"`
	Password   string `json:"password"`
	Expiration string `json:"expiration"`
	Syntax     string `json:"syntax"`
}

type createResponse struct {
	Success     bool       `json:"success"`
	ID          string     `json:"id"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	IsProtected bool       `json:"isProtected"`
}

// HandleCreate saves a new snippet.
//
// HTTP: POST /api/text
// Body: {"text": "...", "password"?: "...", "expiration"?: "24h", "syntax"?: "go"}
func (h *TextHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	result, err := h.texts.Create(r.Context(), req.Text, req.Password, req.Expiration, req.Syntax)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		Success:     true,
		ID:          result.ID,
		ExpiresAt:   result.ExpiresAt,
		IsProtected: result.IsProtected,
	})
}

type textResponse struct {
	Success      bool       `json:"success"`
	Text         string     `json:"text"`
	Syntax       string     `json:"syntax"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastActivity time.Time  `json:"lastActivity"`
	IsProtected  bool       `json:"isProtected"`
}

// HandleGet returns a snippet's content and metadata.
//
// HTTP: GET /api/text/{id}?password=...
//
// The response struct is built field by field rather than encoding the model
// directly — the hash and salt must never be one refactor away from the
// wire.
func (h *TextHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")

	snippet, err := h.texts.Get(r.Context(), id, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, textResponse{
		Success:      true,
		Text:         snippet.Text,
		Syntax:       snippet.Syntax,
		ExpiresAt:    snippet.ExpiresAt,
		CreatedAt:    snippet.CreatedAt,
		LastActivity: snippet.LastActivity,
		IsProtected:  snippet.IsProtected,
	})
}

type deleteRequest struct {
	Password string `json:"password"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/text/{id}
// Body: {"password"?: "..."} — optional, and so is the body itself.
func (h *TextHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// A DELETE with no body is fine; only reject bodies that are present
	// but malformed.
	var req deleteRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid delete request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"))
		return
	}

	if err := h.texts.Delete(r.Context(), id, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: "Text deleted successfully",
	})
}
