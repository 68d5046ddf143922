package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_MessageAndClass(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		sentinel error
	}{
		{
			name:     "not found with id",
			err:      NewNotFoundError("user", "77"),
			msg:      `user with id "77" not found`,
			sentinel: ErrNotFound,
		},
		{
			name:     "not found without id",
			err:      NewNotFoundError("user", ""),
			msg:      "user not found",
			sentinel: ErrNotFound,
		},
		{
			name:     "not found with client reason",
			err:      NewNotFoundErrorWithReason("user", "77", "No user found with the ID:77"),
			msg:      "No user found with the ID:77",
			sentinel: ErrNotFound,
		},
		{
			name:     "conflict",
			err:      NewConflictError("user", "email already exists"),
			msg:      "user conflict: email already exists",
			sentinel: ErrConflict,
		},
		{
			name:     "conflict with details",
			err:      NewConflictErrorWithDetails("user", "email already exists", "users_email_key"),
			msg:      "user conflict: email already exists (users_email_key)",
			sentinel: ErrConflict,
		},
		{
			name:     "field validation",
			err:      NewValidationError("gender", "must be male, female or other"),
			msg:      "validation failed for gender: must be male, female or other",
			sentinel: ErrValidation,
		},
		{
			name:     "validation without field",
			err:      NewValidationError("", "remote rejected request"),
			msg:      "validation failed: remote rejected request",
			sentinel: ErrValidation,
		},
		{
			name:     "unavailable with reason",
			err:      NewUnavailableError("gorest", "connection refused"),
			msg:      `service "gorest" unavailable: connection refused`,
			sentinel: ErrUnavailable,
		},
		{
			name:     "unavailable",
			err:      NewUnavailableError("postgres", ""),
			msg:      `service "postgres" unavailable`,
			sentinel: ErrUnavailable,
		},
	}

	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.msg)

			wrapped := fmt.Errorf("importing page 3: %w", fmt.Errorf("fetch: %w", tt.err))
			for _, s := range sentinels {
				assert.Equal(t, s == tt.sentinel, errors.Is(wrapped, s), "errors.Is(%v)", s)
			}
		})
	}
}

func TestErrors_As(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewNotFoundErrorWithReason("user", "9", "gone"))

	var nf *NotFoundError
	require.ErrorAs(t, wrapped, &nf)
	assert.Equal(t, "user", nf.Entity)
	assert.Equal(t, "9", nf.ID)

	var ve *ValidationError
	require.ErrorAs(t, NewValidationErrorWithValue("id", "must be positive", int64(-1)), &ve)
	assert.Equal(t, int64(-1), ve.Value)

	var ue *UnavailableError
	require.ErrorAs(t, fmt.Errorf("x: %w", NewUnavailableError("gorest", "")), &ue)
	assert.Equal(t, "gorest", ue.Service)
}

func TestIsHelpers(t *testing.T) {
	helpers := map[string]struct {
		is  func(error) bool
		hit error
	}{
		"IsNotFound":    {IsNotFound, NewNotFoundError("user", "1")},
		"IsConflict":    {IsConflict, NewConflictError("user", "dup")},
		"IsValidation":  {IsValidation, ValidationErrors{{Field: "name", Message: "required"}}},
		"IsUnavailable": {IsUnavailable, NewUnavailableError("gorest", "")},
	}

	for name, h := range helpers {
		t.Run(name, func(t *testing.T) {
			assert.True(t, h.is(h.hit))
			assert.True(t, h.is(fmt.Errorf("wrapped: %w", h.hit)))
			assert.False(t, h.is(nil))
			assert.False(t, h.is(errors.New("plain")))
		})
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors

	assert.False(t, errs.HasErrors())
	assert.Equal(t, "validation failed", errs.Error())
	assert.Empty(t, errs.Fields())

	errs.Add("name", "is required")
	errs.Add("gender", "must be male, female or other")
	errs.Add("name", "must be at most 255 characters")

	require.True(t, errs.HasErrors())
	assert.Equal(t, []string{"name", "gender"}, errs.Fields())
	assert.Equal(t,
		"validation failed: name: is required; gender: must be male, female or other; name: must be at most 255 characters",
		errs.Error())

	var asErr error = errs
	assert.ErrorIs(t, asErr, ErrValidation)
}
