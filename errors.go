package authcore

import "errors"

var (
	// ErrInvalidInput is returned when a caller supplied malformed or missing data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when registration targets an email that already has an account.
	ErrConflict = errors.New("account already exists")
	// ErrInvalidCredentials is the deliberately uninformative authentication
	// failure: it is identical whether the email is unknown or the password wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when a presented token is revoked, expired, or malformed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependencyFailure is the generic surface for directory, notification,
	// or revocation-store failures; detail lives only in logs.
	ErrDependencyFailure = errors.New("dependency failure")

	// ErrPrincipalNotFound is returned by UserDirectory implementations for absent lookups.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrDuplicateEmail is returned by UserDirectory implementations when Add
	// violates email uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
)
