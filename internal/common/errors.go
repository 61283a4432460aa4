// Package common defines shared sentinel errors used across the fingr
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Engine-level errors surfaced to the transport. All of them are
	// recoverable by the caller.
	ErrUsernameTaken          = errors.New("username already taken")
	ErrRegistrationClosed     = errors.New("registration is not allowed on this server")
	ErrInvalidRegistrationKey = errors.New("server registration key is invalid")
	ErrAuthFailed             = errors.New("authentication failed")
	ErrNotOnline              = errors.New("not online")
	ErrUserNotFound           = errors.New("user not found")

	// ErrStoreUnavailable marks a storage backend failure. It is fatal to
	// the request but never to the process.
	ErrStoreUnavailable = errors.New("store unavailable")
)
