package auth

import "errors"

// ErrInvalidCredentials is deliberately shared between "no such user" and
// "wrong password" so login responses cannot be used to enumerate usernames.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidRole        = errors.New("invalid role")
)
