package impl

import "regexp"

var (
	// Same acceptance rules the registration form advertises.
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,30}$`)
)
