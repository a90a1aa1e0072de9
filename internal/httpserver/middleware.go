package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	authdomain "forum/backend/internal/domain/auth"
	"forum/backend/internal/logging"

	"github.com/oklog/ulid/v2"
)

const (
	sessionCookie   = "access_token"
	requestIDHeader = "X-Request-ID"

	msgGateMissing  = "invalid token"
	msgGateRejected = "there was an error"
)

type ctxKeyUser struct{}

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *responseRecorder) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// withRequestLogging tags each request with an id and a request-scoped logger.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = ulid.Make().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := s.logger.With("request_id", requestID)
		r = r.WithContext(logging.WithContext(r.Context(), logger))

		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode(),
			"bytes", recorder.size,
			"duration", time.Since(start),
		)
	})
}

// withCORS echoes allowed origins back with credentials enabled so the
// session cookie travels on cross-origin calls.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && isOriginAllowed(origin, s.cfg.AllowedOrigins) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isOriginAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(strings.TrimSuffix(candidate, "/"), origin) {
			return true
		}
	}
	return false
}

// authGate admits requests carrying a session cookie that resolves to an
// existing user, and stores that user in the request context.
func (s *Server) authGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			s.metrics.observeAuth("gate", "missing")
			writeJSON(w, http.StatusForbidden, gateResponse{Msg: msgGateMissing})
			return
		}

		user, err := s.services.Auth.VerifyToken(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, authdomain.ErrTokenInvalid) {
				s.writeServiceError(w, r, err)
				return
			}
			s.metrics.observeAuth("gate", "rejected")
			logging.FromContext(r.Context()).Debug("session rejected", "error", err)
			writeJSON(w, http.StatusForbidden, gateResponse{Msg: msgGateRejected})
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserFromContext(ctx context.Context) (*authdomain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser{}).(*authdomain.User)
	return user, ok && user != nil
}

func actorID(r *http.Request) string {
	if user, ok := currentUserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}
