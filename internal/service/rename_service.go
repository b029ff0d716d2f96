package service

import (
	"context"

	"gridmark/internal/dto"
)

type RenameService interface {
	Change(ctx context.Context, r dto.RenameRequest) error
	Info(ctx context.Context, username string) (*dto.RenameInfo, error)
}
