package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound is the store-level not-found sentinel; callers translate it
// into domain errors.
var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Migrate creates or updates every table the service owns. Called once at boot.
func (s *Store) Migrate(models ...interface{}) error {
	return s.DB.AutoMigrate(models...)
}
