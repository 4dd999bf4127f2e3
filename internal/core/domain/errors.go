package domain

import "errors"

var (
	// ErrValidation marks missing or malformed input. Callers wrap it with
	// the field-level detail that is shown to the client.
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrForbidden = errors.New("access forbidden")

	// ErrTeacherNotProvisioned is returned by registration when no teacher
	// profile carries the requested email.
	ErrTeacherNotProvisioned = errors.New("only pre-provisioned teachers may self-register")

	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
