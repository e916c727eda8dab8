package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sociogram/pkg/errors"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateReportsFullFieldPaths(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	require.Len(t, appErr.FieldErrors, 2)

	assert.Equal(t, []string{"body", "email"}, appErr.FieldErrors[0].Path)
	assert.Equal(t, []string{"body", "password"}, appErr.FieldErrors[1].Path)
	assert.Contains(t, appErr.FieldErrors[1].Message, "at least 8")
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{})
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "email is required", appErr.FieldErrors[0].Message)
}

func TestValidatePassesValidStruct(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sampleRequest{Email: "a@b.c", Password: "long-enough"}))
}
