package user

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/validation"
	authusecase "forum/backend/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MsgRoleInvalid is reported for a role outside the supported set.
const MsgRoleInvalid = "role is not valid"

// Service provides user management use cases.
type Service struct {
	repo    domain.UserRepository
	hasher  authusecase.PasswordHasher
	nowFunc func() time.Time
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository, hasher authusecase.PasswordHasher) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		nowFunc: time.Now,
	}
}

// CreateInput defines the payload to create a new user.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateInput defines the payload to update a user. A blank password keeps
// the stored one and a blank role keeps the current role.
type UpdateInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// List returns every user without password hashes.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list_users").Wrap(err)
	}
	return sanitizeUsers(users), nil
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "get_user")
	}
	return user.Sanitize(), nil
}

// Create persists a new user. Input is validated like a registration.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	errs := authusecase.ValidateCredentials(domain.Credentials{Email: input.Email, Password: input.Password}, authusecase.ModeRegister)
	role, err := domain.ParseRole(strings.TrimSpace(input.Role))
	if err != nil {
		errs.Add("role", MsgRoleInvalid)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, oops.With("operation", "create_user").Wrap(err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, oops.With("operation", "create_user").Wrap(err)
	}

	return user.Sanitize(), nil
}

// Update modifies the persisted user. The password is rehashed only when a
// non-blank one is supplied.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.User, error) {
	errs := validation.Errors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.Add("name", authusecase.MsgNameRequired)
	}
	for field, msg := range authusecase.ValidateCredentials(domain.Credentials{Email: input.Email, Password: input.Password}, authusecase.ModeUpdate) {
		errs.Add(field, msg)
	}
	var role domain.UserRole
	if raw := strings.TrimSpace(input.Role); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			errs.Add("role", MsgRoleInvalid)
		}
		role = parsed
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFoundOrInternal(err, "update_user")
	}

	// The new hash is computed before any write.
	var hashed string
	if strings.TrimSpace(input.Password) != "" {
		hashed, err = s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
	}

	now := s.nowFunc().UTC()
	user.Name = name
	user.Email = input.Email
	if role != "" {
		user.Role = role
	}
	user.UpdatedAt = now

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, oops.With("operation", "update_user", "user_id", user.ID).Wrap(err)
	}

	if hashed != "" {
		if err := s.repo.UpdatePassword(ctx, user.ID, hashed, now); err != nil {
			return nil, notFoundOrInternal(err, "update_password")
		}
	}

	return user.Sanitize(), nil
}

// Delete removes the target user.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return notFoundOrInternal(err, "delete_user")
	}
	return nil
}

// DeleteMany removes every listed user and reports how many existed.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, oops.With("operation", "delete_users", "count", len(ids)).Wrap(err)
	}
	return n, nil
}

func notFoundOrInternal(err error, operation string) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return oops.With("operation", operation).Wrap(err)
}

func sanitizeUsers(items []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(items))
	for _, item := range items {
		out = append(out, item.Sanitize())
	}
	return out
}
