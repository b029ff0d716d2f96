package store

import (
	"context"
	"time"

	"gridmark/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AreaStore struct{ db *gorm.DB }

func (s *Store) Areas() *AreaStore { return &AreaStore{db: s.DB} }

// ReplaceAll upserts the latest ranker output per user, mirroring the external
// script's ON CONFLICT (username) DO UPDATE behavior.
func (as *AreaStore) ReplaceAll(ctx context.Context, areas []domain.UserArea) error {
	if len(areas) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range areas {
		areas[i].UpdatedAt = now
	}
	return as.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"area", "updated_at"}),
	}).Create(&areas).Error
}

func (as *AreaStore) Top(ctx context.Context, limit int) ([]domain.UserArea, error) {
	var out []domain.UserArea
	if err := as.db.WithContext(ctx).
		Order("area DESC, username ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
