package session

import "errors"

var (
	// ErrInvalidCredentials covers unknown username, wrong password and a
	// blocked account alike. Callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrUserNotFound      = errors.New("user not found")
)
