// Package httpmw holds the HTTP plumbing shared by every route: JSON
// responses, error rendering, and the middleware stack.
package httpmw

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"jobmate/jobs-service/internal/apperror"
)

// Headers forwarded by the Gateway after it has authenticated the caller.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserRole  = "x-user-role"
	HeaderRequestID = "X-Request-ID"

	RoleAdmin = "admin"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// ─── Responses ───────────────────────────────────────────────────────────────

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err. Errors raised by the service keep their message;
// anything else is logged and hidden behind a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	ae, ok := apperror.As(err)
	if !ok {
		slog.Error("request failed", "path", r.URL.Path, "requestID", RequestID(r.Context()), "err", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	body := map[string]any{"error": ae.Message()}
	if len(ae.Details()) > 0 {
		body["details"] = ae.Details()
	}
	WriteJSON(w, ae.HTTPStatus(), body)
}

// ─── Middleware ──────────────────────────────────────────────────────────────

// Chain applies the standard stack: recovery -> requestID -> logging.
func Chain(h http.Handler) http.Handler {
	h = Logging(h)
	h = RequestIDMiddleware(h)
	h = Recovery(h)
	return h
}

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "path", r.URL.Path)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id assigned by RequestIDMiddleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).String(),
			"requestID", RequestID(r.Context()),
		)
	})
}

// RequireAdmin rejects callers the Gateway did not mark as admins. Both a
// missing identity and a non-admin role answer 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := CheckAdmin(r.Header.Get(HeaderUserID), r.Header.Get(HeaderUserRole)); err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckAdmin is the transport-neutral admin rule, shared with gRPC.
func CheckAdmin(userID, role string) error {
	if userID == "" {
		return apperror.Unauthorized("missing " + HeaderUserID + " header")
	}
	if role != RoleAdmin {
		return apperror.Unauthorized("admin role required")
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
