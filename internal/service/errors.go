package service

import "errors"

// Common service errors.
var (
	// ErrInvalidCredentials is returned on login when the username is
	// unknown or the password does not match. The two causes are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExecutorNotFound is returned when a task operation references an
	// executor ID that does not belong to an existing executor user.
	ErrExecutorNotFound = errors.New("executor not found")
)
