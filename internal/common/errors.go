// Package common defines shared constants and sentinel errors used across
// the server, transports and the client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyPassword      = errors.New("empty password")
	ErrInvalidArgument    = errors.New("invalid argument")

	// Authorization errors. ErrInvalidToken and ErrTokenExpired are only
	// visible internally; transports report ErrUnauthenticated.
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")

	// Startup errors.
	ErrConfiguration = errors.New("configuration error")
)
