package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("auth: no role present")
	ErrForbidden       = errors.New("auth: access denied")
	ErrInvalidInput    = errors.New("auth: invalid input")
)

// ErrInvalidToken indicates the session token failed validation.
var ErrInvalidToken = errors.New("invalid token")
