package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/satheeshds/autodealer/db"
	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/reconcile"
	"github.com/satheeshds/autodealer/session"
	"golang.org/x/time/rate"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// writeStoreError maps store and ledger errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without internals.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case reconcile.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type contextKey int

const (
	requestIDKey contextKey = iota
	sessionKey
)

// RequestLogger tags each request with an id, stores a request-scoped logger
// in the context and writes one access-log line when the request completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		l := logger.WithComponent("http").With().Str("request_id", requestID).Logger()

		ctx := logger.ToContext(r.Context(), l)
		ctx = context.WithValue(ctx, requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ev := l.Info()
		if status >= 500 {
			ev = l.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// RequireSession rejects requests without a live admin session and puts the
// session in the request context.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		s, err := h.Sessions.Validate(token)
		if err != nil {
			logger.FromContext(r.Context()).Debug().Err(err).Msg("session rejected")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		l := logger.FromContext(r.Context()).With().Str("session_id", s.ID).Logger()
		ctx := logger.ToContext(r.Context(), l)
		ctx = context.WithValue(ctx, sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if t, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(h)
}

// sessionFrom returns the session placed by RequireSession.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// RateLimit throttles each client IP to perMin requests per minute, allowing
// bursts of up to perMin. Idle clients are forgotten after ten minutes.
func RateLimit(perMin int) func(http.Handler) http.Handler {
	limiters := cache.New(10*time.Minute, 10*time.Minute)
	every := time.Minute / time.Duration(perMin)

	limiterFor := func(ip string) *rate.Limiter {
		if v, ok := limiters.Get(ip); ok {
			return v.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Every(every), perMin)
		if err := limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
			if v, ok := limiters.Get(ip); ok {
				return v.(*rate.Limiter)
			}
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiterFor(ip).Allow() {
				logger.FromContext(r.Context()).Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
