package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "forum/backend/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	hasher  PasswordHasher
	tokens  TokenManager
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, hasher PasswordHasher, tokens TokenManager) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is an issued session token and the instant it stops being valid.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Register creates a new user with the default role and returns it without
// its password hash. No session is issued.
//
// Returns validation.Errors for malformed input and domain.ErrEmailExists
// when the email is already taken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	creds := domain.Credentials{Email: in.Email, Password: in.Password}
	if err := ValidateCredentials(creds, ModeRegister).Err(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Role:         domain.RoleUser,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, oops.With("operation", "register").Wrap(err)
	}

	return user.Sanitize(), nil
}

// Login validates credentials and returns a session plus the user.
//
// An unknown email and a wrong password both yield
// domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (*Session, *domain.User, error) {
	if err := ValidateCredentials(creds, ModeLogin).Err(); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, oops.With("operation", "login").Wrap(err)
	}

	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, oops.With("operation", "login", "user_id", user.ID).Wrap(err)
	}
	if !ok {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, nil, err
	}

	session := &Session{Token: token, ExpiresAt: expiresAt}
	return session, user.Sanitize(), nil
}

// Logout returns the expiry to stamp on the session cookie so the client
// drops it. Nothing is revoked server side.
func (s *Service) Logout(_ context.Context) time.Time {
	return s.nowFunc().UTC().Add(-time.Second)
}

// VerifyToken validates a session token and returns the associated user.
// A token whose user no longer exists is rejected like any other invalid
// token.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s no longer exists", domain.ErrTokenInvalid, userID)
		}
		return nil, oops.With("operation", "verify_token", "user_id", userID).Wrap(err)
	}

	return user.Sanitize(), nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailExists
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return oops.With("operation", "lookup_email").Wrap(err)
	}
}
