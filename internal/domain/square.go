package domain

import "time"

// SquareOwnership records "this user has claimed this square". A square may carry
// one row per claimant; the latest per-pair claim wins at read time, not at write
// time. The (square_id, username) pair is the upsert conflict target.
type SquareOwnership struct {
	SquareID  string    `gorm:"type:text;primaryKey;uniqueIndex:ux_square_user,priority:1" db:"square_id" json:"square_id"`
	Username  string    `gorm:"type:text;primaryKey;uniqueIndex:ux_square_user,priority:2" db:"username" json:"username"`
	Latitude  float64   `gorm:"not null" db:"latitude" json:"latitude"`
	Longitude float64   `gorm:"not null" db:"longitude" json:"longitude"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"timestamp"`
}

func (SquareOwnership) TableName() string { return "square_ownership" }

// OwnedSquare is the read model for the ownership dump: an ownership row joined
// with the claimant's display color.
type OwnedSquare struct {
	SquareID  string    `json:"square_id"`
	Username  string    `json:"username"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"timestamp"`
	Color     *string   `json:"color,omitempty"`
}
