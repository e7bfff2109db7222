package model

import (
	"errors"
	"fmt"
)

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrRefreshTokenMismatch = errors.New("refresh token does not match the active session")

	// Post related errors
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")

	// Permission related errors
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")

	ErrScoreOutOfRange = fmt.Errorf("score out of range: %w", ErrInvalidInput)
)
