package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/textshare/internal/apperror"
	"github.com/sakif/textshare/internal/auth"
	"github.com/sakif/textshare/internal/code"
	"github.com/sakif/textshare/internal/handler"
	"github.com/sakif/textshare/internal/model"
	"github.com/sakif/textshare/internal/service"
)

// memRepo is an in-memory repository for handler tests — same contract as
// the real backends, including lazy expiry.
type memRepo struct {
	texts map[string]*model.Snippet
}

func (m *memRepo) Save(_ context.Context, s *model.Snippet) error {
	stored := *s
	m.texts[s.ID] = &stored
	return nil
}

func (m *memRepo) Load(_ context.Context, id string) (*model.Snippet, error) {
	s, ok := m.texts[id]
	if !ok {
		return nil, apperror.NotFound("text", id)
	}
	if s.Expired(time.Now()) {
		delete(m.texts, id)
		return nil, apperror.NotFound("text", id)
	}
	out := *s
	return &out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.texts, id)
	return nil
}

func (m *memRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.texts[id]
	return ok, nil
}

// newTestRouter wires the full API path through a chi router so URL params
// resolve the way they do in production.
func newTestRouter(t *testing.T) (*chi.Mux, *memRepo) {
	t.Helper()
	repo := &memRepo{texts: make(map[string]*model.Snippet)}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := service.NewTextService(repo, code.NewGenerator(repo), auth.NewPasswordServiceForTest(10), logger)
	h := handler.NewTextHandler(svc, logger)

	r := chi.NewRouter()
	r.Post("/api/text", h.HandleCreate)
	r.Get("/api/text/{id}", h.HandleGet)
	r.Delete("/api/text/{id}", h.HandleDelete)
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestCreateThenGet(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":"hello","expiration":"24h"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decode(t, rr)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, false, created["isProtected"])
	assert.NotEmpty(t, created["expiresAt"])
	id, ok := created["id"].(string)
	require.True(t, ok, "response must carry the new id")
	require.Len(t, id, code.Length)

	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)

	got := decode(t, rr)
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "plain", got["syntax"])
	assert.Equal(t, false, got["isProtected"])
	assert.NotEmpty(t, got["createdAt"])
	assert.NotEmpty(t, got["lastActivity"])
}

func TestCreate_EmptyText(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		rr := doJSON(t, router, http.MethodPost, "/api/text", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		resp := decode(t, rr)
		assert.Equal(t, false, resp["success"])
		assert.NotEmpty(t, resp["message"])
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGet_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/text/zzzz", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	resp := decode(t, rr)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
}

func TestGet_ExpiredIsNotFound(t *testing.T) {
	router, repo := newTestRouter(t)

	past := time.Now().Add(-time.Minute)
	repo.texts["dead"] = &model.Snippet{ID: "dead", Text: "x", ExpiresAt: &past}

	rr := doJSON(t, router, http.MethodGet, "/api/text/dead", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// And again: expiration is idempotent, not a one-shot 404.
	rr = doJSON(t, router, http.MethodGet, "/api/text/dead", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGet_ProtectedFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":"secret","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode(t, rr)
	assert.Equal(t, true, created["isProtected"])
	id := created["id"].(string)

	// No password → 403 with the isProtected flag, and a "prompt me" message.
	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id, "")
	require.Equal(t, http.StatusForbidden, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, true, resp["isProtected"])
	assert.Equal(t, "Password required", resp["message"])
	assert.NotContains(t, rr.Body.String(), "secret", "payload must not leak on 403")

	// Wrong password → still 403, different message.
	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id+"?password=wrong", "")
	require.Equal(t, http.StatusForbidden, rr.Code)
	resp = decode(t, rr)
	assert.Equal(t, "Invalid password", resp["message"])
	assert.NotContains(t, rr.Body.String(), "secret")

	// Correct password → the content.
	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id+"?password=pw1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode(t, rr)
	assert.Equal(t, "secret", got["text"])
	assert.Equal(t, true, got["isProtected"])
}

func TestGet_NeverLeaksHashOrSalt(t *testing.T) {
	router, repo := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":"secret","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["id"].(string)

	stored := repo.texts[id]
	require.NotEmpty(t, stored.PasswordHash)

	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id+"?password=pw1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), stored.PasswordHash)
	assert.NotContains(t, rr.Body.String(), stored.PasswordSalt)
	assert.NotContains(t, rr.Body.String(), "pw1")
}

func TestDelete(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":"bye"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["id"].(string)

	// No body at all is fine for unprotected snippets.
	rr = doJSON(t, router, http.MethodDelete, "/api/text/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, true, resp["success"])

	rr = doJSON(t, router, http.MethodGet, "/api/text/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDelete_Protected(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/text", `{"text":"secret","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["id"].(string)

	rr = doJSON(t, router, http.MethodDelete, "/api/text/"+id, `{"password":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/text/"+id, `{"password":"pw1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDelete_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodDelete, "/api/text/zzzz", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
