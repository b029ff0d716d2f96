package service

import (
	"context"

	"gridmark/internal/dto"
)

// MarkService handles the paired claim+log write and the two entry read modes.
type MarkService interface {
	Log(ctx context.Context, r dto.EntryRequest) (*dto.EntryResponse, error)
	// Snapshot surfaces only the latest entry per square.
	Snapshot(ctx context.Context, username string) ([]dto.EntryView, error)
	// History returns every entry; leaderboards and profiles read this.
	History(ctx context.Context, username string) ([]dto.EntryView, error)
}
