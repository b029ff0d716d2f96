package store

import (
	"context"

	"gridmark/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryStore struct{ db *gorm.DB }

func (s *Store) History() *HistoryStore { return &HistoryStore{db: s.DB} }

func (h *HistoryStore) Append(ctx context.Context, rec *domain.UsernameHistory) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return h.db.WithContext(ctx).Create(rec).Error
}

func (h *HistoryStore) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.UsernameHistory, error) {
	var out []domain.UsernameHistory
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("changed_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
