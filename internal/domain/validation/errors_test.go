package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsAddKeepsFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add("email", "email is required")
	errs.Add("email", "email is not valid")

	require.Equal(t, "email is required", errs["email"])
}

func TestErrorsErr(t *testing.T) {
	t.Run("empty set is nil", func(t *testing.T) {
		require.NoError(t, Errors{}.Err())
	})

	t.Run("non-empty set is detectable with errors.As", func(t *testing.T) {
		errs := Errors{}
		errs.Add("password", "password is required")
		errs.Add("email", "email is required")

		err := errs.Err()
		require.Error(t, err)

		var target Errors
		require.True(t, errors.As(err, &target))
		require.Len(t, target, 2)
		require.Equal(t, "validation failed: email: email is required; password: password is required", err.Error())
	})
}
