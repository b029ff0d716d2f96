package impl

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gridmark/internal/domain"
	"gridmark/internal/store"

	"github.com/google/uuid"
)

// memoryStore is the in-memory dataStore used by every service test in this
// package. WithTx snapshots the maps up front and restores them when the
// closure errors, so rollback semantics match the real store. Lookups on
// email, username and invitee are lowercased to mimic the citext columns.
type memoryStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*domain.User
	emailIdx    map[string]uuid.UUID
	usernameIdx map[string]uuid.UUID
	credentials map[uuid.UUID]*domain.PasswordCredential
	entries     []domain.Entry
	squares     map[string]*domain.SquareOwnership
	invites     map[string]*domain.Invite
	history     []domain.UsernameHistory
	areas       map[string]domain.UserArea

	// Injected failures, nil by default.
	inviteLookupErr error
	inviteRenameErr error
	areaTopErr      error
}

type storeSnapshot struct {
	users       map[uuid.UUID]*domain.User
	emailIdx    map[string]uuid.UUID
	usernameIdx map[string]uuid.UUID
	credentials map[uuid.UUID]*domain.PasswordCredential
	entries     []domain.Entry
	squares     map[string]*domain.SquareOwnership
	invites     map[string]*domain.Invite
	history     []domain.UsernameHistory
	areas       map[string]domain.UserArea
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:       make(map[uuid.UUID]*domain.User),
		emailIdx:    make(map[string]uuid.UUID),
		usernameIdx: make(map[string]uuid.UUID),
		credentials: make(map[uuid.UUID]*domain.PasswordCredential),
		squares:     make(map[string]*domain.SquareOwnership),
		invites:     make(map[string]*domain.Invite),
		areas:       make(map[string]domain.UserArea),
	}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	tx := &memoryTx{store: m}
	if err := fn(tx); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *memoryStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		users:       make(map[uuid.UUID]*domain.User, len(m.users)),
		emailIdx:    make(map[string]uuid.UUID, len(m.emailIdx)),
		usernameIdx: make(map[string]uuid.UUID, len(m.usernameIdx)),
		credentials: make(map[uuid.UUID]*domain.PasswordCredential, len(m.credentials)),
		entries:     append([]domain.Entry(nil), m.entries...),
		squares:     make(map[string]*domain.SquareOwnership, len(m.squares)),
		invites:     make(map[string]*domain.Invite, len(m.invites)),
		history:     append([]domain.UsernameHistory(nil), m.history...),
		areas:       make(map[string]domain.UserArea, len(m.areas)),
	}
	for id, user := range m.users {
		copy := *user
		s.users[id] = &copy
	}
	for k, v := range m.emailIdx {
		s.emailIdx[k] = v
	}
	for k, v := range m.usernameIdx {
		s.usernameIdx[k] = v
	}
	for id, cred := range m.credentials {
		copy := *cred
		s.credentials[id] = &copy
	}
	for k, sq := range m.squares {
		copy := *sq
		s.squares[k] = &copy
	}
	for k, inv := range m.invites {
		copy := *inv
		s.invites[k] = &copy
	}
	for k, a := range m.areas {
		s.areas[k] = a
	}
	return s
}

func (m *memoryStore) restore(s storeSnapshot) {
	m.users = s.users
	m.emailIdx = s.emailIdx
	m.usernameIdx = s.usernameIdx
	m.credentials = s.credentials
	m.entries = s.entries
	m.squares = s.squares
	m.invites = s.invites
	m.history = s.history
	m.areas = s.areas
}

// Read helpers for assertions. They take the lock because they run outside
// any transaction.

func (m *memoryStore) userByEmail(email string) (*domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emailIdx[strings.ToLower(email)]
	if !ok {
		return nil, false
	}
	user := *m.users[id]
	return &user, true
}

func (m *memoryStore) userByUsername(username string) (*domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usernameIdx[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	user := *m.users[id]
	return &user, true
}

func (m *memoryStore) credentialByUserID(userID uuid.UUID) (*domain.PasswordCredential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.credentials[userID]
	if !ok {
		return nil, false
	}
	copy := *cred
	return &copy, true
}

func (m *memoryStore) inviteByInvitee(invitee string) (*domain.Invite, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[strings.ToLower(invitee)]
	if !ok {
		return nil, false
	}
	copy := *inv
	return &copy, true
}

func (m *memoryStore) allEntries() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Entry(nil), m.entries...)
}

func (m *memoryStore) allSquares() []domain.SquareOwnership {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SquareOwnership, 0, len(m.squares))
	for _, sq := range m.squares {
		out = append(out, *sq)
	}
	return out
}

func (m *memoryStore) historyRows() []domain.UsernameHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.UsernameHistory(nil), m.history...)
}

func (m *memoryStore) areaRows() []domain.UserArea {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserArea, 0, len(m.areas))
	for _, a := range m.areas {
		out = append(out, a)
	}
	return out
}

type memoryTx struct {
	store *memoryStore
}

func (m *memoryTx) Users() userStore             { return &memoryUserStore{store: m.store} }
func (m *memoryTx) Credentials() credentialStore { return &memoryCredentialStore{store: m.store} }
func (m *memoryTx) Entries() entryStore          { return &memoryEntryStore{store: m.store} }
func (m *memoryTx) Squares() squareStore         { return &memorySquareStore{store: m.store} }
func (m *memoryTx) Invites() inviteStore         { return &memoryInviteStore{store: m.store} }
func (m *memoryTx) History() historyStore        { return &memoryHistoryStore{store: m.store} }
func (m *memoryTx) Areas() areaStore             { return &memoryAreaStore{store: m.store} }

type memoryUserStore struct {
	store *memoryStore
}

func (u *memoryUserStore) Create(ctx context.Context, usr *domain.User) error {
	copy := *usr
	u.store.users[usr.ID] = &copy
	u.store.emailIdx[strings.ToLower(usr.Email)] = usr.ID
	u.store.usernameIdx[strings.ToLower(usr.Username)] = usr.ID
	return nil
}

func (u *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := u.store.emailIdx[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *u.store.users[id]
	return &copy, nil
}

func (u *memoryUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, ok := u.store.usernameIdx[strings.ToLower(username)]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *u.store.users[id]
	return &copy, nil
}

func (u *memoryUserStore) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(u.store.users))
	for _, usr := range u.store.users {
		out = append(out, *usr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (u *memoryUserStore) Rename(ctx context.Context, userID domain.UserID, newUsername string, changedAt time.Time) error {
	usr, ok := u.store.users[userID]
	if !ok {
		return store.ErrRecordNotFound
	}
	delete(u.store.usernameIdx, strings.ToLower(usr.Username))
	usr.Username = newUsername
	at := changedAt
	usr.LastUsernameChange = &at
	usr.UpdatedAt = changedAt
	u.store.usernameIdx[strings.ToLower(newUsername)] = userID
	return nil
}

type memoryCredentialStore struct {
	store *memoryStore
}

func (c *memoryCredentialStore) UpsertPassword(ctx context.Context, cred *domain.PasswordCredential) error {
	copy := *cred
	c.store.credentials[cred.UserID] = &copy
	return nil
}

func (c *memoryCredentialStore) GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error) {
	cred, ok := c.store.credentials[userID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *cred
	return &copy, nil
}

type memoryEntryStore struct {
	store *memoryStore
}

func (e *memoryEntryStore) Append(ctx context.Context, entry *domain.Entry) error {
	e.store.entries = append(e.store.entries, *entry)
	return nil
}

func (e *memoryEntryStore) Snapshot(ctx context.Context, username string) ([]domain.Entry, error) {
	latest := make(map[string]domain.Entry)
	for _, entry := range e.store.entries {
		if username != "" && entry.Username != username {
			continue
		}
		cur, ok := latest[entry.SquareID]
		if !ok || entry.CreatedAt.After(cur.CreatedAt) {
			latest[entry.SquareID] = entry
		}
	}
	out := make([]domain.Entry, 0, len(latest))
	for _, entry := range latest {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SquareID < out[j].SquareID })
	return out, nil
}

func (e *memoryEntryStore) History(ctx context.Context, username string) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, len(e.store.entries))
	for _, entry := range e.store.entries {
		if username != "" && entry.Username != username {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (e *memoryEntryStore) CountByUser(ctx context.Context, username string) (int64, error) {
	var n int64
	for _, entry := range e.store.entries {
		if entry.Username == username {
			n++
		}
	}
	return n, nil
}

func (e *memoryEntryStore) TopByEntries(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	counts := make(map[string]int64)
	for _, entry := range e.store.entries {
		counts[entry.Username]++
	}
	return topRows(counts, limit), nil
}

func (e *memoryEntryStore) TopByDistinctSquares(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	seen := make(map[string]map[string]bool)
	for _, entry := range e.store.entries {
		if seen[entry.Username] == nil {
			seen[entry.Username] = make(map[string]bool)
		}
		seen[entry.Username][entry.SquareID] = true
	}
	counts := make(map[string]int64, len(seen))
	for username, squares := range seen {
		counts[username] = int64(len(squares))
	}
	return topRows(counts, limit), nil
}

func (e *memoryEntryStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	for i := range e.store.entries {
		if e.store.entries[i].Username == oldUsername {
			e.store.entries[i].Username = newUsername
		}
	}
	return nil
}

func (e *memoryEntryStore) SetLocation(ctx context.Context, id domain.EntryID, state, country string) error {
	for i := range e.store.entries {
		if e.store.entries[i].ID == id {
			e.store.entries[i].State = state
			e.store.entries[i].Country = country
			return nil
		}
	}
	return store.ErrRecordNotFound
}

type memorySquareStore struct {
	store *memoryStore
}

func squareKey(squareID, username string) string { return squareID + "|" + username }

func (s *memorySquareStore) Claim(ctx context.Context, claim *domain.SquareOwnership) error {
	copy := *claim
	s.store.squares[squareKey(claim.SquareID, claim.Username)] = &copy
	return nil
}

func (s *memorySquareStore) List(ctx context.Context) ([]domain.OwnedSquare, error) {
	out := make([]domain.OwnedSquare, 0, len(s.store.squares))
	for _, sq := range s.store.squares {
		owned := domain.OwnedSquare{
			SquareID:  sq.SquareID,
			Username:  sq.Username,
			Latitude:  sq.Latitude,
			Longitude: sq.Longitude,
			UpdatedAt: sq.UpdatedAt,
		}
		if id, ok := s.store.usernameIdx[strings.ToLower(sq.Username)]; ok {
			owned.Color = s.store.users[id].Color
		}
		out = append(out, owned)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SquareID != out[j].SquareID {
			return out[i].SquareID < out[j].SquareID
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (s *memorySquareStore) TopByOwnership(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	counts := make(map[string]int64)
	for _, sq := range s.store.squares {
		counts[sq.Username]++
	}
	return topRows(counts, limit), nil
}

func (s *memorySquareStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	for key, sq := range s.store.squares {
		if sq.Username == oldUsername {
			delete(s.store.squares, key)
			copy := *sq
			copy.Username = newUsername
			s.store.squares[squareKey(copy.SquareID, newUsername)] = &copy
		}
	}
	return nil
}

type memoryInviteStore struct {
	store *memoryStore
}

func (i *memoryInviteStore) Create(ctx context.Context, inv *domain.Invite) error {
	copy := *inv
	i.store.invites[strings.ToLower(inv.Invitee)] = &copy
	return nil
}

func (i *memoryInviteStore) GetByInvitee(ctx context.Context, invitee string) (*domain.Invite, error) {
	if i.store.inviteLookupErr != nil {
		return nil, i.store.inviteLookupErr
	}
	inv, ok := i.store.invites[strings.ToLower(invitee)]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *inv
	return &copy, nil
}

func (i *memoryInviteStore) MarkHasEntry(ctx context.Context, invitee string) error {
	if inv, ok := i.store.invites[strings.ToLower(invitee)]; ok && !inv.HasEntry {
		inv.HasEntry = true
	}
	return nil
}

func (i *memoryInviteStore) TopByConverted(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	counts := make(map[string]int64)
	for _, inv := range i.store.invites {
		if inv.HasEntry {
			counts[inv.Inviter]++
		}
	}
	return topRows(counts, limit), nil
}

func (i *memoryInviteStore) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	if i.store.inviteRenameErr != nil {
		return i.store.inviteRenameErr
	}
	for key, inv := range i.store.invites {
		if inv.Inviter == oldUsername {
			inv.Inviter = newUsername
		}
		if inv.Invitee == oldUsername {
			copy := *inv
			copy.Invitee = newUsername
			delete(i.store.invites, key)
			i.store.invites[strings.ToLower(newUsername)] = &copy
		}
	}
	return nil
}

type memoryHistoryStore struct {
	store *memoryStore
}

func (h *memoryHistoryStore) Append(ctx context.Context, rec *domain.UsernameHistory) error {
	h.store.history = append(h.store.history, *rec)
	return nil
}

type memoryAreaStore struct {
	store *memoryStore
}

func (a *memoryAreaStore) ReplaceAll(ctx context.Context, areas []domain.UserArea) error {
	for _, area := range areas {
		a.store.areas[area.Username] = area
	}
	return nil
}

func (a *memoryAreaStore) Top(ctx context.Context, limit int) ([]domain.UserArea, error) {
	if a.store.areaTopErr != nil {
		return nil, a.store.areaTopErr
	}
	out := make([]domain.UserArea, 0, len(a.store.areas))
	for _, area := range a.store.areas {
		out = append(out, area)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Area != out[j].Area {
			return out[i].Area > out[j].Area
		}
		return out[i].Username < out[j].Username
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func topRows(counts map[string]int64, limit int) []domain.LeaderboardRow {
	rows := make([]domain.LeaderboardRow, 0, len(counts))
	for username, count := range counts {
		rows = append(rows, domain.LeaderboardRow{Username: username, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Username < rows[j].Username
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
