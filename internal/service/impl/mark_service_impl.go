package impl

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/grid"
	"gridmark/internal/observability/metrics"
	"gridmark/internal/store"

	"github.com/google/uuid"
)

const maxEntryTextRunes = 500

// unknownLocation is what entries carry until (or unless) reverse geocoding
// fills in the real state/country.
const unknownLocation = "Unknown"

// geocoder resolves a coordinate to (state, country). Implementations must be
// best-effort: they return unknownLocation values rather than errors.
type geocoder interface {
	Resolve(ctx context.Context, lat, lng float64) (state, country string)
}

type MarkServiceImpl struct {
	Store    dataStore
	Geocoder geocoder
}

func NewMarkServiceImpl(st *store.Store, geo geocoder) *MarkServiceImpl {
	return &MarkServiceImpl{Store: gormStoreAdapter{store: st}, Geocoder: geo}
}

// Log validates the mark, then appends the entry, upserts square ownership, and
// flips the invitee's invite flag in a single transaction. The claim and the
// log line land together or not at all.
func (m *MarkServiceImpl) Log(ctx context.Context, r dto.EntryRequest) (*dto.EntryResponse, error) {
	result := "success"
	defer func() {
		metrics.EntriesTotal.WithLabelValues(result).Inc()
	}()

	if r.Username == "" {
		result = "invalid"
		return nil, ErrEmptyCredential
	}
	if r.Text == "" {
		result = "invalid"
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(r.Text) > maxEntryTextRunes {
		result = "invalid"
		return nil, ErrTextTooLong
	}
	cellID, err := grid.CellID(r.Lat, r.Lng)
	if err != nil {
		result = "invalid"
		return nil, err
	}

	entryID := uuid.New()
	var username string

	err = m.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByUsername(ctx, r.Username)
		if err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrUserNotFound
			}
			return err
		}
		username = user.Username // stored casing, not the request's

		priorEntries, err := tx.Entries().CountByUser(ctx, username)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := &domain.Entry{
			ID:        entryID,
			Username:  username,
			SquareID:  cellID,
			Latitude:  r.Lat,
			Longitude: r.Lng,
			Text:      r.Text,
			State:     unknownLocation,
			Country:   unknownLocation,
			CreatedAt: now,
		}
		if err := tx.Entries().Append(ctx, entry); err != nil {
			return err
		}

		claim := &domain.SquareOwnership{
			SquareID:  cellID,
			Username:  username,
			Latitude:  r.Lat,
			Longitude: r.Lng,
			UpdatedAt: now,
		}
		if err := tx.Squares().Claim(ctx, claim); err != nil {
			return err
		}

		if priorEntries == 0 {
			// First mark converts the invite, if one exists.
			if err := tx.Invites().MarkHasEntry(ctx, username); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result = "failure"
		if err == domain.ErrUserNotFound {
			result = "unknown_user"
		}
		return nil, err
	}

	m.enrichLocation(ctx, entryID, r.Lat, r.Lng)

	slog.Info("entry logged", "username", username, "square_id", cellID)
	return &dto.EntryResponse{Success: true, EntryID: entryID.String(), SquareID: cellID}, nil
}

// enrichLocation runs after the entry transaction commits. Failures leave the
// entry at the Unknown defaults and never surface to the caller.
func (m *MarkServiceImpl) enrichLocation(ctx context.Context, id domain.EntryID, lat, lng float64) {
	if m.Geocoder == nil {
		return
	}
	state, country := m.Geocoder.Resolve(ctx, lat, lng)
	if state == unknownLocation && country == unknownLocation {
		return
	}
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		return tx.Entries().SetLocation(ctx, id, state, country)
	})
	if err != nil {
		slog.Warn("location enrichment failed", "entry_id", id, "error", err)
	}
}

func (m *MarkServiceImpl) Snapshot(ctx context.Context, username string) ([]dto.EntryView, error) {
	var entries []domain.Entry
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		entries, err = tx.Entries().Snapshot(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toViews(entries), nil
}

func (m *MarkServiceImpl) History(ctx context.Context, username string) ([]dto.EntryView, error) {
	var entries []domain.Entry
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		entries, err = tx.Entries().History(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toViews(entries), nil
}

func toViews(entries []domain.Entry) []dto.EntryView {
	out := make([]dto.EntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.EntryView{
			ID:        e.ID.String(),
			Username:  e.Username,
			SquareID:  e.SquareID,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Text:      e.Text,
			State:     e.State,
			Country:   e.Country,
			Timestamp: e.CreatedAt,
		})
	}
	return out
}
