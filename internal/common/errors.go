package common

import "errors"

var (
	// ErrorNotFound is returned when a requested item is missing locally or remotely.
	ErrorNotFound = errors.New("not found")

	// Session lifecycle errors.
	ErrNoSession      = errors.New("no valid token")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")
)
