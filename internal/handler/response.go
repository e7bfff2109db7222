package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		StatusCode: status,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"
	body := &model.APIError{Code: apierror.CodeInternal}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
		body.Code = apiErr.Code
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		message = "User not found"
	} else if errors.Is(err, model.ErrPostNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		message = "Post not found"
	} else if errors.Is(err, model.ErrCommentNotFound) {
		status = http.StatusNotFound
		body.Code = apierror.CodeNotFound
		message = "Comment not found"
	} else if errors.Is(err, model.ErrUsernameTaken) {
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		message = "Username already exists"
		body.Details = "username"
	} else if errors.Is(err, model.ErrAlreadyLiked) {
		status = http.StatusConflict
		body.Code = apierror.CodeConflict
		message = "Post already liked"
	} else if errors.Is(err, model.ErrNotLiked) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeInvalidState
		message = "Post not liked yet"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthenticated
		message = "Invalid user credentials"
	} else if errors.Is(err, model.ErrRefreshTokenMismatch) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthenticated
		message = "Refresh token is expired or used"
	} else if errors.Is(err, model.ErrUnauthenticated) {
		status = http.StatusUnauthorized
		body.Code = apierror.CodeUnauthenticated
		message = "Unauthorized request"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = apierror.CodeForbidden
		message = "You are not allowed to perform this action"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = apierror.CodeValidation
		message = "Invalid input"
	} else if isPayloadTooLarge(err) {
		status = http.StatusRequestEntityTooLarge
		body.Code = "PAYLOAD_TOO_LARGE"
		message = "Request body too large"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Error:      body,
	})
}

func isPayloadTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if isPayloadTooLarge(err) {
			return err
		}
		return apierror.Validation("invalid JSON body", "")
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}
