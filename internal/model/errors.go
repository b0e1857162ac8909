package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")

	// File related errors
	ErrFileNotFound = errors.New("file not found")

	// Catalog related errors
	ErrMinistryNotFound = errors.New("ministry not found")
	ErrDuplicateCatalog = errors.New("catalog entry already exists")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
