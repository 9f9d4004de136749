package httpmw_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/httpmw"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body map[string]any
	}{
		{apperror.InvalidInput("no data"), http.StatusBadRequest, map[string]any{"error": "no data"}},
		{apperror.InvalidInput("a; b", "a", "b"), http.StatusBadRequest, map[string]any{"error": "a; b", "details": []any{"a", "b"}}},
		{apperror.Duplicate("Duplicate job: x"), http.StatusBadRequest, map[string]any{"error": "Duplicate job: x"}},
		{apperror.NotFound("No job: x"), http.StatusNotFound, map[string]any{"error": "No job: x"}},
		{apperror.Unauthorized("admin role required"), http.StatusUnauthorized, map[string]any{"error": "admin role required"}},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, map[string]any{"error": "internal server error"}},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		httpmw.WriteError(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil), c.err)
		assert.Equal(t, c.code, rec.Code)
		assert.Equal(t, c.body, decode(t, rec))
	}
}

func TestCheckAdmin(t *testing.T) {
	assert.NoError(t, httpmw.CheckAdmin("u1", "admin"))

	err := httpmw.CheckAdmin("", "admin")
	assert.EqualError(t, err, "missing x-user-id header")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	assert.EqualError(t, httpmw.CheckAdmin("u1", "user"), "admin role required")
}

func TestChain_RequestIDAndRecovery(t *testing.T) {
	var seen string
	h := httpmw.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpmw.RequestID(r.Context())
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(httpmw.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(httpmw.HeaderRequestID, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", seen)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["error"])
}

func TestRequireAdmin(t *testing.T) {
	h := httpmw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set(httpmw.HeaderUserID, "u1")
	req.Header.Set(httpmw.HeaderUserRole, httpmw.RoleAdmin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
