package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "organization"}
		assert.Equal(t, "organization not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "organization"}
		err2 := &NotFoundError{Entity: "organization"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		assert.False(t, errors.Is(ErrOrganizationNotFound, ErrProfileNotFound))
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", ErrProfileNotFound)
		assert.True(t, errors.Is(wrapped, ErrProfileNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrOrganizationNotFound))
		assert.False(t, IsNotFound(ErrUsernameExists))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		assert.Equal(t, "organization already exists with this name", ErrOrganizationExists.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		assert.Equal(t, "username already exists", ErrUsernameExists.Error())
	})

	t.Run("errors.Is compares entity only", func(t *testing.T) {
		other := &AlreadyExistsError{Entity: "email", Context: "somewhere else"}
		assert.True(t, errors.Is(other, ErrEmailExists))
		assert.False(t, errors.Is(ErrEmailExists, ErrUsernameExists))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrAlreadyLinked))
		assert.False(t, IsAlreadyExists(ErrOrganizationNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid format"}
		assert.Equal(t, "validation error: email - invalid format", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		assert.True(t, IsValidation(ErrWeakPassword))
		assert.True(t, IsValidation(FieldErrors{"name": {"required"}}))
		assert.False(t, IsValidation(ErrOrganizationNotFound))
	})
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	errs.Add("username", "This field is required.")
	errs.Add("email", "Enter a valid email address.")
	errs.Add("email", "Email already exists.")

	assert.Len(t, errs["email"], 2)
	assert.Equal(t,
		"validation failed: email: Enter a valid email address.; Email already exists., username: This field is required.",
		errs.Error())
}

func TestToFieldErrors(t *testing.T) {
	t.Run("field errors pass through", func(t *testing.T) {
		in := FieldErrors{"name": {"This field is required."}}
		out, ok := ToFieldErrors(fmt.Errorf("wrapped: %w", in))
		require.True(t, ok)
		assert.Equal(t, in, out)
	})

	t.Run("validation error keyed by field", func(t *testing.T) {
		out, ok := ToFieldErrors(ErrWeakPassword)
		require.True(t, ok)
		assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, out["password"])
	})

	t.Run("conflict keyed by field", func(t *testing.T) {
		out, ok := ToFieldErrors(ErrUsernameExists)
		require.True(t, ok)
		assert.Equal(t, []string{"Username already exists."}, out["username"])
	})

	t.Run("validation error without field", func(t *testing.T) {
		out, ok := ToFieldErrors(&ValidationError{Message: "bad"})
		require.True(t, ok)
		assert.Equal(t, []string{"bad"}, out["non_field_errors"])
	})

	t.Run("unrelated error", func(t *testing.T) {
		_, ok := ToFieldErrors(ErrOrganizationNotFound)
		assert.False(t, ok)
	})

	t.Run("joined conflicts merge", func(t *testing.T) {
		joined := errors.Join(ErrUsernameExists, ErrEmailExists, NewValidationError("organization", "Organization does not exist."))
		out, ok := ToFieldErrors(joined)
		require.True(t, ok)
		assert.Equal(t, FieldErrors{
			"username":     {"Username already exists."},
			"email":        {"Email already exists."},
			"organization": {"Organization does not exist."},
		}, out)
	})

	t.Run("joined with unrelated error", func(t *testing.T) {
		_, ok := ToFieldErrors(errors.Join(ErrUsernameExists, errors.New("connection reset")))
		assert.False(t, ok)
	})
}

func TestAuthenticationHelpers(t *testing.T) {
	assert.True(t, IsAuthentication(ErrInvalidCredentials))
	assert.True(t, IsAuthentication(fmt.Errorf("login: %w", ErrAccountDisabled)))
	assert.False(t, IsAuthentication(ErrOrganizationNotFound))
	assert.True(t, IsAuthorization(NewAuthorizationError("forbidden")))
}
