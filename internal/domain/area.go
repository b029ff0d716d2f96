package domain

import "time"

// UserArea is the persisted snapshot of the externally computed Voronoi areas.
// Replaced wholesale after each successful ranker run; served as a fallback when
// the ranker fails.
type UserArea struct {
	Username  string    `gorm:"type:text;primaryKey" db:"username" json:"username"`
	Area      float64   `gorm:"not null" db:"area" json:"area"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (UserArea) TableName() string { return "user_areas" }

// LeaderboardRow is a generic (username, count) aggregation result.
type LeaderboardRow struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}
