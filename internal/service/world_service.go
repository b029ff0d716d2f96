package service

import (
	"context"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
)

// WorldService serves the map-facing dumps: the full ownership table and the
// public user directory.
type WorldService interface {
	Squares(ctx context.Context) ([]domain.OwnedSquare, error)
	Users(ctx context.Context) ([]dto.UserView, error)
}
