// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing or invalid caller identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller may not act on the target account.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates a missing or empty token payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedKey indicates an external-id key that violates the
	// gemini_<account>_<ciphertext> encoding.
	ErrMalformedKey = errors.New("malformed key")

	// ErrMalformedState indicates a stored record whose key cannot be parsed
	// (corruption or out-of-band tampering).
	ErrMalformedState = errors.New("malformed stored state")

	// ErrCodec indicates a key-derivation, encryption, or decryption failure,
	// including passphrase mismatch.
	ErrCodec = errors.New("codec failure")

	// ErrAlreadyExists indicates a unique constraint violation in the store.
	ErrAlreadyExists = errors.New("already exists")
)
