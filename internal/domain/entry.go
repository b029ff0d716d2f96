package domain

import "time"

// Entry is one geotagged mark. Rows are append-only; only the username column is
// ever rewritten, and only by the rename propagation transaction.
type Entry struct {
	ID        EntryID   `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Username  string    `gorm:"type:text;not null;index" db:"username" json:"username"`
	SquareID  string    `gorm:"type:text;not null;index" db:"square_id" json:"square_id"`
	Latitude  float64   `gorm:"not null" db:"latitude" json:"latitude"`
	Longitude float64   `gorm:"not null" db:"longitude" json:"longitude"`
	Text      string    `gorm:"type:text;not null" db:"text" json:"text"`
	State     string    `gorm:"type:text" db:"state" json:"state"`
	Country   string    `gorm:"type:text" db:"country" json:"country"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"timestamp"`
}

func (Entry) TableName() string { return "map_entries" }
