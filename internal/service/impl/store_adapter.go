package impl

import (
	"context"
	"errors"
	"time"

	"gridmark/internal/domain"
	"gridmark/internal/store"
)

// The services in this package depend on these narrow interfaces rather than on
// the gorm store directly, so tests can swap in an in-memory implementation.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
	Credentials() credentialStore
	Entries() entryStore
	Squares() squareStore
	Invites() inviteStore
	History() historyStore
	Areas() areaStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Rename(ctx context.Context, userID domain.UserID, newUsername string, changedAt time.Time) error
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error)
}

type entryStore interface {
	Append(ctx context.Context, entry *domain.Entry) error
	Snapshot(ctx context.Context, username string) ([]domain.Entry, error)
	History(ctx context.Context, username string) ([]domain.Entry, error)
	CountByUser(ctx context.Context, username string) (int64, error)
	TopByEntries(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	TopByDistinctSquares(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	RenameUser(ctx context.Context, oldUsername, newUsername string) error
	SetLocation(ctx context.Context, id domain.EntryID, state, country string) error
}

type squareStore interface {
	Claim(ctx context.Context, claim *domain.SquareOwnership) error
	List(ctx context.Context) ([]domain.OwnedSquare, error)
	TopByOwnership(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	RenameUser(ctx context.Context, oldUsername, newUsername string) error
}

type inviteStore interface {
	Create(ctx context.Context, inv *domain.Invite) error
	GetByInvitee(ctx context.Context, invitee string) (*domain.Invite, error)
	MarkHasEntry(ctx context.Context, invitee string) error
	TopByConverted(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	RenameUser(ctx context.Context, oldUsername, newUsername string) error
}

type historyStore interface {
	Append(ctx context.Context, rec *domain.UsernameHistory) error
}

type areaStore interface {
	ReplaceAll(ctx context.Context, areas []domain.UserArea) error
	Top(ctx context.Context, limit int) ([]domain.UserArea, error)
}

// gormStoreAdapter bridges the concrete gorm store to the interfaces above.

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore             { return g.tx.Users() }
func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }
func (g gormTxAdapter) Entries() entryStore          { return g.tx.Entries() }
func (g gormTxAdapter) Squares() squareStore         { return g.tx.Squares() }
func (g gormTxAdapter) Invites() inviteStore         { return g.tx.Invites() }
func (g gormTxAdapter) History() historyStore        { return g.tx.History() }
func (g gormTxAdapter) Areas() areaStore             { return g.tx.Areas() }
