package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrTokenInvalid means a supplied session token is missing, tampered or expired.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole indicates the provided role is not supported.
	ErrInvalidRole = errors.New("invalid role")
)

// UserRole identifies the privileges assigned to a user.
type UserRole string

const (
	// RoleUser represents a standard forum member.
	RoleUser UserRole = "user"
	// RoleAdmin represents a forum administrator.
	RoleAdmin UserRole = "admin"
)

// ParseRole normalises raw into a known role. Empty input yields RoleUser.
func ParseRole(raw string) (UserRole, error) {
	switch role := UserRole(raw); role {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

// User models the identity record persisted in storage. PasswordHash never
// leaves the service layer: it is excluded from JSON and blanked by Sanitize.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitize returns a copy of u with the password hash removed.
func (u *User) Sanitize() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.PasswordHash = ""
	return &clean
}

// Credentials captures raw credential input for register and login.
type Credentials struct {
	Email    string
	Password string
}
