package http

import (
	"errors"
	"net/http"

	"gridmark/internal/domain"
	"gridmark/internal/service/impl"
)

// statusFor translates service errors into the HTTP taxonomy and the API's
// user-facing messages. Unknown errors stay generic 500s.
func statusFor(err error) (int, string) {
	var cooldown *domain.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return http.StatusForbidden, cooldown.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email already exists."
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already exists."
	case errors.Is(err, domain.ErrInvalidUsername):
		return http.StatusBadRequest, "Username may only contain letters, numbers and underscores (4-30 characters)."
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest, "Invalid coordinates."
	case errors.Is(err, impl.ErrEmptyCredential):
		return http.StatusBadRequest, "All fields are required."
	case errors.Is(err, impl.ErrInvalidEmail):
		return http.StatusBadRequest, "Please provide a valid email address."
	case errors.Is(err, impl.ErrUsernameLength):
		return http.StatusBadRequest, "Username must be between 4 and 30 characters long."
	case errors.Is(err, impl.ErrPasswordLength):
		return http.StatusBadRequest, "Password must be between 8 and 30 characters long."
	case errors.Is(err, impl.ErrEmptyText):
		return http.StatusBadRequest, "Entry text is required."
	case errors.Is(err, impl.ErrTextTooLong):
		return http.StatusBadRequest, "Entry text too long."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}
