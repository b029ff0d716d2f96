package dto

// UserView is the public directory entry: no email, no credential material.
type UserView struct {
	Username string  `json:"username"`
	Color    *string `json:"color,omitempty"`
}
