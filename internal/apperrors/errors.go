package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user is deactivated")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no bearer token provided")
	ErrTokenInvalid       = errors.New("token invalid or expired")

	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	// Authenticated but lacking ownership or role for the mutation
	ErrForbidden = errors.New("operation not allowed")
)
