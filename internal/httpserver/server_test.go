package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"forum/backend/internal/config"
	"forum/backend/internal/infrastructure/memory"
	"forum/backend/internal/infrastructure/password"
	"forum/backend/internal/infrastructure/token"
	authusecase "forum/backend/internal/usecase/auth"
	categoryusecase "forum/backend/internal/usecase/category"
	commentusecase "forum/backend/internal/usecase/comment"
	threadusecase "forum/backend/internal/usecase/thread"
	userusecase "forum/backend/internal/usecase/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "http://localhost:5173"

type testEnv struct {
	server *Server
	store  *memory.Store
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Config{
		HTTPPort:       "0",
		JWTSecret:      "test-secret",
		JWTIssuer:      "forum",
		SessionTTL:     24 * time.Hour,
		AllowedOrigins: []string{testOrigin},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := memory.NewStore()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	tokens := token.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.JWTIssuer)

	services := Services{
		Auth:       authusecase.NewService(store.Users(), hasher, tokens),
		Users:      userusecase.NewService(store.Users(), hasher),
		Categories: categoryusecase.NewService(store.Categories(), store.Threads(), store.Comments()),
		Threads:    threadusecase.NewService(store.Threads(), store.Comments(), store.Users(), store.Categories()),
		Comments:   commentusecase.NewService(store.Comments(), store.Threads(), store.Users()),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{server: NewServer(cfg, services, logger), store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// signIn registers email and returns the session cookie from login.
func (e *testEnv) signIn(t *testing.T, email string) *http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{"name": "Ana", "email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return findCookie(t, rec)
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("response carries no %s cookie", sessionCookie)
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterLoginScenario(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	registered := decodeBody[noticeResponse](t, rec)
	assert.Equal(t, noticeSuccess, registered.Message.Type)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	user := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotEmpty(t, user["_id"])

	cookie := findCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.False(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), cookie.Expires, time.Minute)

	wrong := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "wrong1"})
	require.Equal(t, http.StatusNotFound, wrong.Code)
	assert.Equal(t, noticeError, decodeBody[noticeResponse](t, wrong).Message.Type)

	unknown := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@b.com", "password": "secret1"})
	require.Equal(t, http.StatusNotFound, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
}

func TestRegisterRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "not-an-email", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[validationResponse](t, rec)
	assert.Equal(t, authusecase.MsgEmailInvalid, body.Errors["email"])
	assert.Equal(t, authusecase.MsgPasswordTooShort, body.Errors["password"])

	rec = env.do(t, http.MethodPost, "/api/auth/register", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody[validationResponse](t, rec)
	assert.Equal(t, authusecase.MsgEmailRequired, body.Errors["email"])
	assert.Equal(t, authusecase.MsgPasswordRequired, body.Errors["password"])

	rec = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "long@b.com", "password": strings.Repeat("a", 73)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, authusecase.MsgPasswordTooLong, decodeBody[validationResponse](t, rec).Errors["password"])

	env.signIn(t, "dup@b.com")
	rec = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "dup@b.com", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, noticeError, decodeBody[noticeResponse](t, rec).Message.Type)
}

func TestRegisterRejectsMalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errInvalidJSON.Error(), decodeBody[messageResponse](t, rec).Message)
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "gate@b.com")

	tests := []struct {
		name    string
		cookie  *http.Cookie
		wantMsg string
	}{
		{name: "missing cookie", wantMsg: msgGateMissing},
		{name: "empty cookie", cookie: &http.Cookie{Name: sessionCookie, Value: " "}, wantMsg: msgGateMissing},
		{name: "garbage token", cookie: &http.Cookie{Name: sessionCookie, Value: "abc.def.ghi"}, wantMsg: msgGateRejected},
		{name: "tampered token", cookie: &http.Cookie{Name: sessionCookie, Value: cookie.Value + "x"}, wantMsg: msgGateRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			rec := env.do(t, http.MethodGet, "/api/categories", nil, cookies...)
			require.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody[gateResponse](t, rec).Msg)
		})
	}

	rec := env.do(t, http.MethodGet, "/api/auth/verify", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gate@b.com", decodeBody[sessionUser](t, rec).Email)
}

func TestAuthGateRejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "gone@b.com")

	rec := env.do(t, http.MethodGet, "/api/auth/verify", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeBody[sessionUser](t, rec).ID

	require.NoError(t, env.store.Users().Delete(context.Background(), id))

	rec = env.do(t, http.MethodGet, "/api/auth/verify", nil, cookie)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgGateRejected, decodeBody[gateResponse](t, rec).Msg)
}

func TestLogoutExpiresCookie(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "out@b.com")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session closed successfully", decodeBody[messageResponse](t, rec).Message)

	cleared := findCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.Expires.Before(time.Now()))

	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.AuthRateLimit = config.RateLimit{Requests: 2, Window: time.Minute, Burst: 2}
	})

	creds := map[string]string{"email": "a@b.com", "password": "secret1"}
	for range 2 {
		rec := env.do(t, http.MethodPost, "/api/auth/login", creds)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/auth/login", creds)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReadiness(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	cfg := config.Config{JWTSecret: "s"}
	down := NewServer(cfg, env.server.services, nil, WithReadiness(func(context.Context) error {
		return errors.New("db down")
	}))
	rec = httptest.NewRecorder()
	down.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", nil)
	env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "secret1"})

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "forum_http_requests_total")
	assert.Contains(t, body, `route="/health"`)
	assert.Contains(t, body, `forum_auth_outcomes_total{action="login",result="failure"}`)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", clientIP(req, true))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", clientIP(req, true))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", clientIP(req, true))
	assert.Equal(t, "10.0.0.1", clientIP(req, false))
}

func TestAuthRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.AuthRateLimit = config.RateLimit{Requests: 2, Window: time.Minute, Burst: 2}
	})

	codes := make([]int, 0, 3)
	for i := range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"a@b.com","password":"secret1"}`))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)

	trusted := newTestEnv(t, func(c *config.Config) {
		c.AuthRateLimit = config.RateLimit{Requests: 1, Window: time.Minute, Burst: 1, TrustProxyHeaders: true}
	})
	for i := range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"a@b.com","password":"secret1"}`))
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		trusted.server.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}
