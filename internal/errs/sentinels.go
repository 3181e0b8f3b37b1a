// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials indicates a failed login. It covers both an unknown
	// identifier and a wrong password so callers cannot tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCrypto indicates an RNG or hashing failure. Fatal, never retried.
	ErrCrypto = errors.New("crypto failure")

	// ErrInvalidEnum indicates a play state or platform outside the allowed set.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrForbidden indicates the caller does not own the target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated indicates a missing, malformed, or tampered session token.
	ErrUnauthenticated = errors.New("unauthenticated")
)
