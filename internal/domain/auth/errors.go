package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionInvalid     = errors.New("session is missing, expired or revoked")
	ErrUsernameExhausted  = errors.New("no free username candidate")
	ErrEmailRequired      = errors.New("employee email is required for provisioning")
)
