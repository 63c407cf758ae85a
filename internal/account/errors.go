package account

import "errors"

var (
	ErrCapacityExceeded = errors.New("account pool is full")
	ErrDuplicateName    = errors.New("account name already exists")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrAccountNotFound  = errors.New("account not found")
	ErrEmptyName        = errors.New("account name is required")
)
