package dto

type LoginRequest struct {
	// Username also accepts an email address; handlers pass whichever field the
	// client sent.
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}
