package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotVerified     = errors.New("account is not verified")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrRejected        = errors.New("request rejected")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrAlreadyVerified = errors.New("account already verified")
	ErrInvalidArgument = errors.New("invalid argument")
)
