package domain

import "time"

type User struct {
	ID                 UserID     `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Email              string     `gorm:"type:citext;uniqueIndex:ux_users_email" db:"email" json:"email"`
	Username           string     `gorm:"type:citext;uniqueIndex:ux_users_username" db:"username" json:"username"`
	Color              *string    `gorm:"type:text" db:"color" json:"color,omitempty"`
	LastUsernameChange *time.Time `db:"last_username_change" json:"lastUsernameChange,omitempty"`
	CreatedAt          time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UsernameHistory is the append-only audit trail for renames. Rows are written
// inside the rename transaction and never updated.
type UsernameHistory struct {
	ID          CredentialID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID      UserID       `gorm:"type:uuid;index" db:"user_id"`
	OldUsername string       `gorm:"type:text;not null" db:"old_username"`
	NewUsername string       `gorm:"type:text;not null" db:"new_username"`
	ChangedAt   time.Time    `gorm:"not null" db:"changed_at"`
}

func (UsernameHistory) TableName() string { return "username_history" }
