package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

func TestStructAcceptsValidRequest(t *testing.T) {
	t.Parallel()

	req := model.RegisterRequest{Username: "alice", Fullname: "Alice", Password: "secret1", Project: "p1"}
	require.NoError(t, Struct(&req))
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	t.Parallel()

	req := model.ChangePasswordRequest{NewPassword: "abc"}
	fields := Fields(&req)

	require.Equal(t, "oldPassword is required", fields["oldPassword"])
	require.Equal(t, "newPassword must be at least 6 characters long", fields["newPassword"])
}

func TestStructReturnsValidationError(t *testing.T) {
	t.Parallel()

	err := Struct(&model.UpdateEmailRequest{Email: "nope"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, apierror.CodeValidation, apiErr.Code)
	require.Equal(t, 400, apiErr.HTTPStatus)
	require.Equal(t, "email must be a valid email address", apiErr.Message)
	require.Equal(t, "email", apiErr.Details)
}

func TestStructRejectsNonUUIDReference(t *testing.T) {
	t.Parallel()

	fields := Fields(&model.PostRefRequest{Post: "123"})
	require.Equal(t, "post must be a valid id", fields["post"])
}
