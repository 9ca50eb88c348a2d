// Package common defines shared sentinel errors used across the elib server
// layers. Callers should use errors.Is to match these values; the HTTP layer
// translates them into status codes in exactly one place.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. Field detail travels in the wrapping error message.
	ErrorValidation = errors.New("validation failed")

	// Asset relay errors. An upload failure aborts the surrounding operation.
	ErrorUploadFailed = errors.New("upload failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired or used")
)
