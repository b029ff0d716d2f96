package impl

import "errors"

var (
	ErrEmptyCredential = errors.New("empty credential(s)")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrUsernameLength  = errors.New("username must be between 4 and 30 characters long")
	ErrPasswordLength  = errors.New("password must be between 8 and 30 characters long")
	ErrEmptyText       = errors.New("entry text is required")
	ErrTextTooLong     = errors.New("entry text too long")
)
