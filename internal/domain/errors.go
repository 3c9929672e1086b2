package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common game failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrAdminOnly          = errors.New("user attempted admin move")
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnknownRequest     = errors.New("unknown request type")
	ErrPersistence        = errors.New("failed to persist world state")
)
