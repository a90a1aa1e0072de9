package auth

import "time"

// TokenManager abstracts session token issuance and verification.
type TokenManager interface {
	// Generate returns a signed token for userID and the instant it
	// expires, as recorded in the token itself.
	Generate(userID string) (string, time.Time, error)
	// Validate returns the user id carried by token. Every failure wraps
	// domain.ErrTokenInvalid.
	Validate(token string) (string, error)
}

// PasswordHasher abstracts one-way password hashing.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when hash is unusable.
	Verify(plain, hash string) (bool, error)
}
