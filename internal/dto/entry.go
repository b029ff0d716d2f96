package dto

import "time"

type EntryRequest struct {
	Username string  `json:"username"`
	Text     string  `json:"text"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type EntryResponse struct {
	Success  bool   `json:"success"`
	EntryID  string `json:"entryId,omitempty"`
	SquareID string `json:"squareId,omitempty"`
}

type EntryView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	SquareID  string    `json:"square_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Text      string    `json:"text"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	Timestamp time.Time `json:"timestamp"`
}
