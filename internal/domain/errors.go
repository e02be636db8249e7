package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCorruptCredential  = errors.New("stored credential is corrupt")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
)
