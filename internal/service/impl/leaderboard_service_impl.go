package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/store"
)

const (
	entryLeaderboardLimit = 5
	leaderboardLimit      = 10
)

// areaRanker is the external Voronoi collaborator: it runs an unseen process
// and returns whatever per-user areas could be parsed from its output.
type areaRanker interface {
	Rank(ctx context.Context) ([]domain.UserArea, error)
}

// resultCache is an optional read-through cache for leaderboard responses.
// A nil cache disables caching entirely.
type resultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

type LeaderboardServiceImpl struct {
	Store    dataStore
	Ranker   areaRanker
	Cache    resultCache
	CacheTTL time.Duration
}

func NewLeaderboardServiceImpl(st *store.Store, ranker areaRanker, cache resultCache, ttl time.Duration) *LeaderboardServiceImpl {
	return &LeaderboardServiceImpl{
		Store:    gormStoreAdapter{store: st},
		Ranker:   ranker,
		Cache:    cache,
		CacheTTL: ttl,
	}
}

func (l *LeaderboardServiceImpl) Entries(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	return l.counted(ctx, "lb:entries", func(tx storeTx) ([]domain.LeaderboardRow, error) {
		return tx.Entries().TopByEntries(ctx, entryLeaderboardLimit)
	})
}

func (l *LeaderboardServiceImpl) TerritoryFromEntries(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	return l.counted(ctx, "lb:squares", func(tx storeTx) ([]domain.LeaderboardRow, error) {
		return tx.Entries().TopByDistinctSquares(ctx, leaderboardLimit)
	})
}

func (l *LeaderboardServiceImpl) TerritoryFromOwnership(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	return l.counted(ctx, "lb:ownership", func(tx storeTx) ([]domain.LeaderboardRow, error) {
		return tx.Squares().TopByOwnership(ctx, leaderboardLimit)
	})
}

func (l *LeaderboardServiceImpl) Invites(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	return l.counted(ctx, "lb:invites", func(tx storeTx) ([]domain.LeaderboardRow, error) {
		return tx.Invites().TopByConverted(ctx, leaderboardLimit)
	})
}

// Voronoi runs the external ranker and serves its output, persisting a snapshot
// so a later ranker failure can still serve the last known areas. A run with no
// usable data degrades to an empty board, never to a request failure.
func (l *LeaderboardServiceImpl) Voronoi(ctx context.Context) ([]dto.AreaEntry, error) {
	key := "lb:voronoi"
	if cached, ok := l.cached(ctx, key); ok {
		var out []dto.AreaEntry
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	areas, err := l.rank(ctx)
	if err != nil {
		slog.Warn("area ranker failed, serving last snapshot", "error", err)
		areas = l.lastSnapshot(ctx)
	} else if len(areas) > 0 {
		persistErr := l.Store.WithTx(ctx, func(tx storeTx) error {
			return tx.Areas().ReplaceAll(ctx, append([]domain.UserArea(nil), areas...))
		})
		if persistErr != nil {
			slog.Warn("persisting area snapshot failed", "error", persistErr)
		}
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Area != areas[j].Area {
			return areas[i].Area > areas[j].Area
		}
		return areas[i].Username < areas[j].Username
	})
	if len(areas) > leaderboardLimit {
		areas = areas[:leaderboardLimit]
	}

	out := make([]dto.AreaEntry, 0, len(areas))
	for _, a := range areas {
		out = append(out, dto.AreaEntry{Username: a.Username, Area: a.Area})
	}
	l.put(ctx, key, out)
	return out, nil
}

func (l *LeaderboardServiceImpl) rank(ctx context.Context) ([]domain.UserArea, error) {
	if l.Ranker == nil {
		return nil, nil
	}
	return l.Ranker.Rank(ctx)
}

func (l *LeaderboardServiceImpl) lastSnapshot(ctx context.Context) []domain.UserArea {
	var areas []domain.UserArea
	err := l.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		areas, err = tx.Areas().Top(ctx, leaderboardLimit)
		return err
	})
	if err != nil {
		slog.Warn("area snapshot unavailable", "error", err)
		return nil
	}
	return areas
}

func (l *LeaderboardServiceImpl) counted(ctx context.Context, key string, query func(tx storeTx) ([]domain.LeaderboardRow, error)) ([]dto.LeaderboardEntry, error) {
	if cached, ok := l.cached(ctx, key); ok {
		var out []dto.LeaderboardEntry
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	var rows []domain.LeaderboardRow
	err := l.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		rows, err = query(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LeaderboardEntry{Username: r.Username, Count: r.Count})
	}
	l.put(ctx, key, out)
	return out, nil
}

func (l *LeaderboardServiceImpl) cached(ctx context.Context, key string) ([]byte, bool) {
	if l.Cache == nil {
		return nil, false
	}
	return l.Cache.Get(ctx, key)
}

func (l *LeaderboardServiceImpl) put(ctx context.Context, key string, v interface{}) {
	if l.Cache == nil {
		return
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return
	}
	l.Cache.Set(ctx, key, buf, l.CacheTTL)
}
