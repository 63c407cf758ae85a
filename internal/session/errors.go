package session

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown account name and a wrong password.
	ErrInvalidCredentials = errors.New("invalid account name or password")
	ErrAlreadyBound       = errors.New("player is already logged in")
	ErrNotBound           = errors.New("player is not logged in")
	ErrAccountInUse       = errors.New("account is in use by another player")
	ErrNotConnected       = errors.New("player is not connected")
	ErrAlreadyConnected   = errors.New("player is already connected")
)
