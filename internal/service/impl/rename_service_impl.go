package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/observability/metrics"
	"gridmark/internal/store"

	"github.com/google/uuid"
)

// cooldownDays is the minimum spacing between two renames of one account.
const cooldownDays = 30

// RenameServiceImpl runs the username lifecycle: validate, check the cooldown,
// then propagate the new name across users, map_entries, square_ownership and
// invites in one transaction. Any propagation failure rolls back the whole
// rename; a partially renamed account is never observable.
type RenameServiceImpl struct {
	Store dataStore
}

func NewRenameServiceImpl(st *store.Store) *RenameServiceImpl {
	return &RenameServiceImpl{Store: gormStoreAdapter{store: st}}
}

func (s *RenameServiceImpl) Change(ctx context.Context, r dto.RenameRequest) error {
	result := "success"
	defer func() {
		metrics.RenamesTotal.WithLabelValues(result).Inc()
	}()

	// Validating: shape checks need no storage.
	if r.CurrentUsername == "" || r.NewUsername == "" {
		result = "invalid"
		return ErrEmptyCredential
	}
	if !usernamePattern.MatchString(r.NewUsername) {
		result = "invalid"
		return domain.ErrInvalidUsername
	}
	if strings.EqualFold(r.CurrentUsername, r.NewUsername) {
		result = "invalid"
		return domain.ErrInvalidUsername
	}

	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByUsername(ctx, r.CurrentUsername)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		// Validating, storage half: the citext index makes this check
		// case-insensitive.
		if _, err := tx.Users().GetByUsername(ctx, r.NewUsername); err == nil {
			return domain.ErrUsernameTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		// CooldownCheck: a user who never renamed passes trivially.
		now := time.Now().UTC()
		if user.LastUsernameChange != nil {
			elapsed := int(now.Sub(*user.LastUsernameChange).Hours() / 24)
			if elapsed < cooldownDays {
				return &domain.CooldownError{DaysRemaining: cooldownDays - elapsed}
			}
		}

		// Committing: every statement below succeeds or the transaction rolls
		// back and the old name stays everywhere.
		oldUsername := user.Username
		if err := tx.Users().Rename(ctx, user.ID, r.NewUsername, now); err != nil {
			return err
		}
		if err := tx.History().Append(ctx, &domain.UsernameHistory{
			ID:          uuid.New(),
			UserID:      user.ID,
			OldUsername: oldUsername,
			NewUsername: r.NewUsername,
			ChangedAt:   now,
		}); err != nil {
			return err
		}
		if err := tx.Entries().RenameUser(ctx, oldUsername, r.NewUsername); err != nil {
			return err
		}
		if err := tx.Squares().RenameUser(ctx, oldUsername, r.NewUsername); err != nil {
			return err
		}
		if err := tx.Invites().RenameUser(ctx, oldUsername, r.NewUsername); err != nil {
			return err
		}

		slog.Info("username changed", "old", oldUsername, "new", r.NewUsername)
		return nil
	})

	if err != nil {
		result = renameResultLabel(err)
		return err
	}
	return nil
}

func (s *RenameServiceImpl) Info(ctx context.Context, username string) (*dto.RenameInfo, error) {
	var user *domain.User
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		user, err = tx.Users().GetByUsername(ctx, username)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	info := &dto.RenameInfo{Username: user.Username, CanChange: true}
	if user.LastUsernameChange != nil {
		last := *user.LastUsernameChange
		next := last.AddDate(0, 0, cooldownDays)
		info.LastChange = &last
		info.NextAllowedAt = &next
		if now := time.Now().UTC(); now.Before(next) {
			info.CanChange = false
			info.DaysRemaining = cooldownDays - int(now.Sub(last).Hours()/24)
		}
	}
	return info, nil
}

func renameResultLabel(err error) string {
	var cooldown *domain.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return "cooldown"
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrInvalidUsername):
		return "rejected"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	default:
		return "failure"
	}
}
