package domain

import "time"

// Invite links a new account to the existing user who invited it. HasEntry flips
// when the invitee logs their first mark, inside that mark's transaction.
type Invite struct {
	ID        InviteID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Inviter   string    `gorm:"type:text;not null;index" db:"inviter" json:"inviter"`
	Invitee   string    `gorm:"type:text;not null;uniqueIndex:ux_invites_invitee" db:"invitee" json:"invitee"`
	HasEntry  bool      `gorm:"not null;default:false" db:"has_entry" json:"hasEntry"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (Invite) TableName() string { return "invites" }
