package store

import (
	"context"

	"gridmark/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryStore struct{ db *gorm.DB }

func (s *Store) Entries() *EntryStore { return &EntryStore{db: s.DB} }

func (e *EntryStore) Append(ctx context.Context, entry *domain.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return e.db.WithContext(ctx).Create(entry).Error
}

// Snapshot returns the latest entry per square: the "current state" read. An
// empty username returns the snapshot across all users.
func (e *EntryStore) Snapshot(ctx context.Context, username string) ([]domain.Entry, error) {
	q := e.db.WithContext(ctx).Model(&domain.Entry{}).
		Select("DISTINCT ON (square_id) *").
		Order("square_id, created_at DESC")
	if username != "" {
		q = q.Where("username = ?", username)
	}
	var out []domain.Entry
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// History returns every entry, newest first. Leaderboards and profile stats read
// this, never Snapshot.
func (e *EntryStore) History(ctx context.Context, username string) ([]domain.Entry, error) {
	q := e.db.WithContext(ctx).Order("created_at DESC")
	if username != "" {
		q = q.Where("username = ?", username)
	}
	var out []domain.Entry
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (e *EntryStore) CountByUser(ctx context.Context, username string) (int64, error) {
	var n int64
	err := e.db.WithContext(ctx).Model(&domain.Entry{}).Where("username = ?", username).Count(&n).Error
	return n, err
}

// TopByEntries ranks users by total entry count.
func (e *EntryStore) TopByEntries(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	var rows []domain.LeaderboardRow
	err := e.db.WithContext(ctx).Model(&domain.Entry{}).
		Select("username, COUNT(*) AS count").
		Group("username").
		Order("count DESC, username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopByDistinctSquares ranks users by the number of distinct squares present in
// their entry history. This denominator differs from the ownership-store count
// on purpose; the two leaderboards are separate metrics.
func (e *EntryStore) TopByDistinctSquares(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	var rows []domain.LeaderboardRow
	err := e.db.WithContext(ctx).Model(&domain.Entry{}).
		Select("username, COUNT(DISTINCT square_id) AS count").
		Group("username").
		Order("count DESC, username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RenameUser rewrites the username column across the whole log. Only the rename
// transaction calls this.
func (e *EntryStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	return e.db.WithContext(ctx).Model(&domain.Entry{}).
		Where("username = ?", oldUsername).
		Update("username", newUsername).Error
}

// SetLocation fills in the reverse-geocoded state/country after the fact. The
// enrichment is best-effort and runs outside the entry transaction.
func (e *EntryStore) SetLocation(ctx context.Context, id domain.EntryID, state, country string) error {
	return e.db.WithContext(ctx).Model(&domain.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"state": state, "country": country}).Error
}
