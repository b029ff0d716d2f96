package service

import (
	"context"

	"gridmark/internal/dto"
)

type LeaderboardService interface {
	// Entries ranks by total entry count (top 5).
	Entries(ctx context.Context) ([]dto.LeaderboardEntry, error)
	// TerritoryFromEntries ranks by distinct squares in the entry log (top 10).
	TerritoryFromEntries(ctx context.Context) ([]dto.LeaderboardEntry, error)
	// TerritoryFromOwnership ranks by rows in the ownership store (top 10).
	// A different denominator than TerritoryFromEntries, kept intentionally.
	TerritoryFromOwnership(ctx context.Context) ([]dto.LeaderboardEntry, error)
	// Invites ranks inviters by converted invitees (top 10).
	Invites(ctx context.Context) ([]dto.LeaderboardEntry, error)
	// Voronoi ranks by externally computed area (top 10).
	Voronoi(ctx context.Context) ([]dto.AreaEntry, error)
}
