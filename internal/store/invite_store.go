package store

import (
	"context"

	"gridmark/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteStore struct{ db *gorm.DB }

func (s *Store) Invites() *InviteStore { return &InviteStore{db: s.DB} }

func (is *InviteStore) Create(ctx context.Context, inv *domain.Invite) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return is.db.WithContext(ctx).Create(inv).Error
}

func (is *InviteStore) GetByInvitee(ctx context.Context, invitee string) (*domain.Invite, error) {
	var inv domain.Invite
	if err := is.db.WithContext(ctx).First(&inv, "invitee = ?", invitee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// MarkHasEntry flips has_entry once the invitee logs their first mark.
func (is *InviteStore) MarkHasEntry(ctx context.Context, invitee string) error {
	return is.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("invitee = ? AND has_entry = false", invitee).
		Update("has_entry", true).Error
}

// TopByConverted ranks inviters by invitees who went on to log an entry.
func (is *InviteStore) TopByConverted(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	var rows []domain.LeaderboardRow
	err := is.db.WithContext(ctx).Model(&domain.Invite{}).
		Select("inviter AS username, COUNT(*) AS count").
		Where("has_entry = true").
		Group("inviter").
		Order("count DESC, inviter ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RenameUser rewrites both sides of the invite relation.
func (is *InviteStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	if err := is.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("inviter = ?", oldUsername).
		Update("inviter", newUsername).Error; err != nil {
		return err
	}
	return is.db.WithContext(ctx).Model(&domain.Invite{}).
		Where("invitee = ?", oldUsername).
		Update("invitee", newUsername).Error
}
