package services

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid arguments")
	ErrUnknownOwner         = errors.New("unknown user")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid token")
)
