// Package settings holds the in-memory mirror of the guild_settings table.
//
// The Cache is the only in-memory copy of guild configuration in the
// process: every command and event handler reads through it, and the
// lifecycle handler keeps it in lockstep with the durable store. A single
// RWMutex guards the whole map; the lock is only ever held for the
// in-memory operation itself, never across store or gateway I/O, so a slow
// database write can not stall unrelated cache reads.
package settings

import (
	"sort"
	"sync"

	"github.com/groblegark/warden/internal/model"
)

// Cache is a concurrent map of guild id to settings.
type Cache struct {
	mu     sync.RWMutex
	guilds map[uint64]model.GuildSettings
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		guilds: make(map[uint64]model.GuildSettings),
	}
}

// Get returns the settings for a guild, if present.
func (c *Cache) Get(guildID uint64) (model.GuildSettings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.guilds[guildID]
	return s, ok
}

// Upsert applies mutate to the existing entry for guildID, or to a
// freshly-defaulted one when the guild is not yet tracked, and stores the
// result. The returned value is the entry as written.
func (c *Cache) Upsert(guildID uint64, mutate func(*model.GuildSettings)) model.GuildSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.guilds[guildID]
	if !ok {
		s = model.DefaultSettings(guildID, 0)
	}
	if mutate != nil {
		mutate(&s)
	}
	s.GuildID = guildID
	c.guilds[guildID] = s
	return s
}

// SetIfAbsent stores s only when the guild is not yet tracked, and returns
// the entry that is in the cache afterwards. Duplicate join events therefore
// never clobber a customized entry.
func (c *Cache) SetIfAbsent(guildID uint64, s model.GuildSettings) model.GuildSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.guilds[guildID]; ok {
		return existing
	}
	s.GuildID = guildID
	c.guilds[guildID] = s
	return s
}

// Remove deletes the entry for a guild and returns it, if it was present.
func (c *Cache) Remove(guildID uint64) (model.GuildSettings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.guilds[guildID]
	if ok {
		delete(c.guilds, guildID)
	}
	return s, ok
}

// Size returns the number of tracked guilds.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.guilds)
}

// Replace swaps the entire cache contents for the given settings.
// Used to warm the cache from the store when the gateway reports its
// own cache ready.
func (c *Cache) Replace(all []model.GuildSettings) {
	guilds := make(map[uint64]model.GuildSettings, len(all))
	for _, s := range all {
		guilds[s.GuildID] = s
	}

	c.mu.Lock()
	c.guilds = guilds
	c.mu.Unlock()
}

// Snapshot returns a copy of all tracked settings, sorted by guild id.
func (c *Cache) Snapshot() []model.GuildSettings {
	c.mu.RLock()
	all := make([]model.GuildSettings, 0, len(c.guilds))
	for _, s := range c.guilds {
		all = append(all, s)
	}
	c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].GuildID < all[j].GuildID
	})
	return all
}
