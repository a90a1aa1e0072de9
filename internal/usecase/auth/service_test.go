package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/validation"
	"forum/backend/internal/infrastructure/memory"
	"forum/backend/internal/infrastructure/password"
	"forum/backend/internal/infrastructure/token"
	"forum/backend/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc    *auth.Service
	users  *memory.UserRepository
	tokens *token.JWTManager
}

func newFixture() fixture {
	users := memory.NewStore().Users()
	tokens := token.NewJWTManager("test-secret", token.DefaultTTL, "forum")
	return fixture{
		svc:    auth.NewService(users, password.NewBcryptHasher(bcrypt.MinCost), tokens),
		users:  users,
		tokens: tokens,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cases := []domain.Credentials{
		{Email: "a@b.com", Password: "secret1"},
		{Email: "someone.else@example.org", Password: "a much longer password"},
		{Email: "Mixed@Case.io", Password: "ñandú!"},
	}

	for _, creds := range cases {
		user, err := f.svc.Register(ctx, auth.RegisterInput{Name: "Ana", Email: creds.Email, Password: creds.Password})
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)
		assert.Equal(t, domain.RoleUser, user.Role)

		session, loggedIn, err := f.svc.Login(ctx, creds)
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)
		assert.Empty(t, loggedIn.PasswordHash)
		assert.WithinDuration(t, time.Now().Add(token.DefaultTTL), session.ExpiresAt, time.Minute)

		verified, err := f.svc.VerifyToken(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, verified.ID)
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user, err := f.svc.Register(ctx, auth.RegisterInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_DuplicateEmailDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.svc.Register(ctx, auth.RegisterInput{Name: "First", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, auth.RegisterInput{Name: "Second", Email: "a@b.com", Password: "another1"})
	require.ErrorIs(t, err, domain.ErrEmailExists)

	all, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "First", all[0].Name)

	// The original password still logs in.
	_, _, err = f.svc.Login(ctx, domain.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestRegister_ValidationErrors(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Register(context.Background(), auth.RegisterInput{Email: "nope", Password: "123"})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, auth.MsgEmailInvalid, verrs["email"])
	assert.Equal(t, auth.MsgPasswordTooShort, verrs["password"])

	all, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Register(ctx, auth.RegisterInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, wrongPassword := f.svc.Login(ctx, domain.Credentials{Email: "a@b.com", Password: "wrong-password"})
	_, _, unknownEmail := f.svc.Login(ctx, domain.Credentials{Email: "nobody@b.com", Password: "secret1"})

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_ValidatesInput(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Login(context.Background(), domain.Credentials{Email: "a@b.com"})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, validation.Errors{"password": auth.MsgPasswordRequired}, verrs)
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	user, err := f.svc.Register(ctx, auth.RegisterInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("invalid token", func(t *testing.T) {
		_, err := f.svc.VerifyToken(ctx, "garbage")
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("deleted user", func(t *testing.T) {
		tok, _, err := f.tokens.Generate(user.ID)
		require.NoError(t, err)
		require.NoError(t, f.users.Delete(ctx, user.ID))

		_, err = f.svc.VerifyToken(ctx, tok)
		require.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestLogout_ExpiresInThePast(t *testing.T) {
	f := newFixture()
	assert.True(t, f.svc.Logout(context.Background()).Before(time.Now()))
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }
func (failingHasher) Verify(string, string) (bool, error) {
	return false, errors.New("entropy exhausted")
}

func TestRegister_HashFailureIsInternal(t *testing.T) {
	users := memory.NewStore().Users()
	svc := auth.NewService(users, failingHasher{}, token.NewJWTManager("s", 0, "forum"))

	_, err := svc.Register(context.Background(), auth.RegisterInput{Email: "a@b.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailExists)

	var verrs validation.Errors
	assert.False(t, errors.As(err, &verrs))

	all, err := users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLogin_SessionExpiryMatchesTokenClock(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	users := memory.NewStore().Users()
	tokens := token.NewJWTManager("test-secret", time.Hour, "forum", token.WithClock(func() time.Time { return issued }))
	svc := auth.NewService(users, password.NewBcryptHasher(bcrypt.MinCost), tokens)

	_, err := svc.Register(ctx, auth.RegisterInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	session, _, err := svc.Login(ctx, domain.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), session.ExpiresAt)
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	longest := strings.Repeat("a", auth.MaxPasswordBytes)
	_, err := f.svc.Register(ctx, auth.RegisterInput{Email: "a@b.com", Password: longest})
	require.NoError(t, err)
	_, _, err = f.svc.Login(ctx, domain.Credentials{Email: "a@b.com", Password: longest})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, auth.RegisterInput{Email: "b@b.com", Password: longest + "a"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, auth.MsgPasswordTooLong, verrs["password"])

	_, err = f.users.GetByEmail(ctx, "b@b.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
