package impl

import (
	"context"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/store"
)

type WorldServiceImpl struct {
	Store dataStore
}

func NewWorldServiceImpl(st *store.Store) *WorldServiceImpl {
	return &WorldServiceImpl{Store: gormStoreAdapter{store: st}}
}

func (w *WorldServiceImpl) Squares(ctx context.Context) ([]domain.OwnedSquare, error) {
	var squares []domain.OwnedSquare
	err := w.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		squares, err = tx.Squares().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return squares, nil
}

func (w *WorldServiceImpl) Users(ctx context.Context) ([]dto.UserView, error) {
	var users []domain.User
	err := w.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		users, err = tx.Users().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserView{Username: u.Username, Color: u.Color})
	}
	return out, nil
}
