package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrInvalidUsername    = errors.New("invalid username")
)

// CooldownError reports how long until the next rename is allowed.
type CooldownError struct {
	DaysRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("username can be changed again in %d days", e.DaysRemaining)
}
