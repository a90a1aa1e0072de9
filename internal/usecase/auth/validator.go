package auth

import (
	"strings"
	"unicode/utf8"

	domain "forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/validation"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt accepts, in bytes.
const MaxPasswordBytes = 72

// Field messages returned in a validation.Errors set.
const (
	MsgEmailRequired    = "email is required"
	MsgEmailInvalid     = "email is not valid"
	MsgPasswordRequired = "password is required"
	MsgPasswordTooShort = "password must contain at least 6 characters"
	MsgPasswordTooLong  = "password must be at most 72 bytes"
	MsgNameRequired     = "name is required"
)

// Mode selects which password rules apply.
type Mode int

const (
	// ModeRegister requires a password of MinPasswordLength characters up to
	// MaxPasswordBytes bytes.
	ModeRegister Mode = iota
	// ModeLogin applies the same rules as ModeRegister.
	ModeLogin
	// ModeUpdate makes the password optional. A password that is blank
	// after trimming is treated as absent.
	ModeUpdate
)

var validate = validator.New()

// ValidateCredentials checks the email and password fields independently and
// returns every failing field. An empty set means the input is valid.
func ValidateCredentials(creds domain.Credentials, mode Mode) validation.Errors {
	errs := validation.Errors{}

	switch {
	case creds.Email == "":
		errs.Add("email", MsgEmailRequired)
	case validate.Var(creds.Email, "email") != nil:
		errs.Add("email", MsgEmailInvalid)
	}

	if mode == ModeUpdate && strings.TrimSpace(creds.Password) == "" {
		return errs
	}
	switch {
	case creds.Password == "":
		errs.Add("password", MsgPasswordRequired)
	case utf8.RuneCountInString(creds.Password) < MinPasswordLength:
		errs.Add("password", MsgPasswordTooShort)
	case len(creds.Password) > MaxPasswordBytes:
		errs.Add("password", MsgPasswordTooLong)
	}

	return errs
}
