package service

import "errors"

var (
	// ErrNotFound is returned when a list, item, or user document does not
	// exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrNotAuthenticated is returned when no session is available for the
	// requested operation.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials is returned on a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrValidation wraps malformed-input failures (empty name, bad emoji,
	// non-positive quantity).
	ErrValidation = errors.New("validation failed")

	// ErrMissingIDAfterWrite is returned when the store accepted a write but
	// the entity came back without an identifier.
	ErrMissingIDAfterWrite = errors.New("store returned no id after write")
)
