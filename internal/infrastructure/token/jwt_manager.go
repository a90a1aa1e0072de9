package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domain "forum/backend/internal/domain/auth"
	usecase "forum/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTTL is the validity window of an issued session token.
const DefaultTTL = 24 * time.Hour

// JWTManager issues and validates HS256 session tokens.
//
// A token is accepted while now < exp. At the exact expiry instant it is
// rejected. Expiry has second precision.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// Option customises a JWTManager.
type Option func(*JWTManager)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewJWTManager constructs a manager with the provided secret and expiration.
// A non-positive expiration falls back to DefaultTTL.
func NewJWTManager(secret string, expiration time.Duration, issuer string, opts ...Option) *JWTManager {
	if expiration <= 0 {
		expiration = DefaultTTL
	}
	m := &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims represents token claims.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TTL returns the validity window of issued tokens.
func (m *JWTManager) TTL() time.Duration {
	return m.expiration
}

// Generate creates a signed token carrying the user id and returns it with
// its exp claim.
func (m *JWTManager) Generate(userID string) (string, time.Time, error) {
	now := m.now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("TOKEN_SIGN_FAILED").With("user_id", userID).Wrap(err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate parses the token and returns the user id it carries. Every
// failure wraps domain.ErrTokenInvalid.
func (m *JWTManager) Validate(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", fmt.Errorf("%w: missing token", domain.ErrTokenInvalid)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, parserOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("%w: invalid token claims", domain.ErrTokenInvalid)
	}
	return claims.UserID, nil
}
