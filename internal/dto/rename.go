package dto

import "time"

type RenameRequest struct {
	CurrentUsername string `json:"currentUsername"`
	NewUsername     string `json:"newUsername"`
}

type RenameInfo struct {
	Username      string     `json:"username"`
	LastChange    *time.Time `json:"lastChange,omitempty"`
	NextAllowedAt *time.Time `json:"nextAllowedAt,omitempty"`
	CanChange     bool       `json:"canChange"`
	DaysRemaining int        `json:"daysRemaining"`
}
