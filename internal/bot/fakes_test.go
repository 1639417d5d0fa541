package bot

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/groblegark/warden/internal/model"
)

// fakeStore is an in-memory store.Store with per-operation failure
// injection.
type fakeStore struct {
	mu     sync.Mutex
	rows   map[uint64]model.GuildSettings
	fail   map[string]error // op name -> injected error
	calls  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows: make(map[uint64]model.GuildSettings),
		fail: make(map[string]error),
	}
}

func (f *fakeStore) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeStore) op(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeStore) row(guildID uint64) (model.GuildSettings, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[guildID]
	return s, ok
}

func (f *fakeStore) UpsertGuild(ctx context.Context, s model.GuildSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("upsert"); err != nil {
		return err
	}
	if _, ok := f.rows[s.GuildID]; !ok {
		f.rows[s.GuildID] = s
	}
	return nil
}

func (f *fakeStore) UpdatePrefix(ctx context.Context, guildID uint64, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("update_prefix"); err != nil {
		return err
	}
	s, ok := f.rows[guildID]
	if !ok {
		return sql.ErrNoRows
	}
	s.Prefix = prefix
	f.rows[guildID] = s
	return nil
}

func (f *fakeStore) UpdateMute(ctx context.Context, guildID uint64, muteType model.MuteType, muteRoleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("update_mute"); err != nil {
		return err
	}
	s, ok := f.rows[guildID]
	if !ok {
		return sql.ErrNoRows
	}
	s.MuteType = muteType
	s.MuteRoleID = muteRoleID
	f.rows[guildID] = s
	return nil
}

func (f *fakeStore) GetGuild(ctx context.Context, guildID uint64) (*model.GuildSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("get"); err != nil {
		return nil, err
	}
	s, ok := f.rows[guildID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeStore) ListGuilds(ctx context.Context) ([]model.GuildSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("list"); err != nil {
		return nil, err
	}
	all := make([]model.GuildSettings, 0, len(f.rows))
	for _, s := range f.rows {
		all = append(all, s)
	}
	return all, nil
}

func (f *fakeStore) DeleteGuild(ctx context.Context, guildID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.op("delete"); err != nil {
		return err
	}
	if _, ok := f.rows[guildID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, guildID)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakeNotifier records presence updates and replies.
type fakeNotifier struct {
	mu        sync.Mutex
	presences []string
	replies   []string
	channels  []uint64
	sendErr   error
}

func (f *fakeNotifier) SetPresence(ctx context.Context, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.presences = append(f.presences, status)
	return nil
}

func (f *fakeNotifier) SendReply(ctx context.Context, channelID uint64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channelID)
	f.replies = append(f.replies, content)
	return nil
}

func (f *fakeNotifier) lastReply() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return ""
	}
	return f.replies[len(f.replies)-1]
}

func (f *fakeNotifier) presenceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.presences)
}

// fakeOracle answers permission checks from a fixed admin set.
type fakeOracle struct {
	admins map[uint64]bool
	err    error
}

func (f *fakeOracle) IsAdministrator(ctx context.Context, guildID, userID uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[userID], nil
}

var errBoom = errors.New("boom")
