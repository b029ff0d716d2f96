package store

import (
	"context"
	"time"

	"gridmark/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SquareStore struct{ db *gorm.DB }

func (s *Store) Squares() *SquareStore { return &SquareStore{db: s.DB} }

// Claim upserts the (square_id, username) pair: a repeat claim by the same user
// refreshes coordinates and timestamp instead of inserting a second row. Other
// users' rows on the same square are never touched.
func (ss *SquareStore) Claim(ctx context.Context, claim *domain.SquareOwnership) error {
	if claim.UpdatedAt.IsZero() {
		claim.UpdatedAt = time.Now().UTC()
	}
	return ss.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "square_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "updated_at"}),
	}).Create(claim).Error
}

// List dumps the whole ownership table joined with each claimant's color.
func (ss *SquareStore) List(ctx context.Context) ([]domain.OwnedSquare, error) {
	var out []domain.OwnedSquare
	err := ss.db.WithContext(ctx).
		Table("square_ownership").
		Select("square_ownership.square_id, square_ownership.username, square_ownership.latitude, square_ownership.longitude, square_ownership.updated_at, users.color").
		Joins("LEFT JOIN users ON users.username = square_ownership.username").
		Order("square_ownership.square_id, square_ownership.username").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopByOwnership ranks users by rows held in the ownership table.
func (ss *SquareStore) TopByOwnership(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	var rows []domain.LeaderboardRow
	err := ss.db.WithContext(ctx).Model(&domain.SquareOwnership{}).
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

func (ss *SquareStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	return ss.db.WithContext(ctx).Model(&domain.SquareOwnership{}).
		Where("username = ?", oldUsername).
		Update("username", newUsername).Error
}
