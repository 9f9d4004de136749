package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/jobs-service/internal/scheduler"
)

func TestHealthHandler(t *testing.T) {
	redisErr := errors.New("connection refused")
	s := scheduler.New(60,
		scheduler.Probe{Name: "postgres", Check: func(context.Context) error { return nil }},
		scheduler.Probe{Name: "redis", Check: func(context.Context) error { return redisErr }},
	)

	rec := httptest.NewRecorder()
	healthHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no probe has run yet")

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	require.Eventually(t, func() bool { return len(s.Status()) == 2 }, 2*time.Second, 10*time.Millisecond)

	rec = httptest.NewRecorder()
	healthHandler(s)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "connection refused"}, body["checks"])
}
