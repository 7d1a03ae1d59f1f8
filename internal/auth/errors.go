package auth

import "errors"

var (
	// ErrInvalidToken indicates a malformed token, a bad signature or an
	// unexpected signing algorithm.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so the response does not leak which one it was.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrNotFound      = errors.New("auth: not found")
	ErrAlreadyExists = errors.New("auth: already exists")
	ErrInvalidInput  = errors.New("auth: invalid input")
)
