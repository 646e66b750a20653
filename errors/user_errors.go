package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserConflict    = errors.New("user conflict")
	ErrInvalidUserData = errors.New("invalid user data")
	ErrUnknownRole     = errors.New("unknown role")
)
