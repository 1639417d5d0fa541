// Package bot implements the core of the daemon: the lifecycle state
// machine that keeps the settings cache and the store in lockstep, the
// prefix command, and the presence status loop.
package bot

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/groblegark/warden/internal/gateway"
	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/settings"
	"github.com/groblegark/warden/internal/store"
)

// Handler reacts to gateway events and commands. All state lives in the
// injected cache and store; the handler itself is stateless and safe for
// concurrent use.
type Handler struct {
	cache    *settings.Cache
	store    store.Store
	notifier gateway.Notifier
	oracle   gateway.PermissionOracle
	status   *StatusLoop
	logger   *slog.Logger
}

// NewHandler wires a handler. status may be nil when no presence loop is
// wanted (e.g. in tests).
func NewHandler(cache *settings.Cache, st store.Store, notifier gateway.Notifier, oracle gateway.PermissionOracle, status *StatusLoop, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cache:    cache,
		store:    st,
		notifier: notifier,
		oracle:   oracle,
		status:   status,
		logger:   logger,
	}
}

// HandleGuildJoined tracks a newly-joined guild. The durable write happens
// before the cache update, so a crash between the two leaves the cache
// lagging but never the store. The insert is insert-or-ignore: the platform
// redelivers joined events for every known guild on reconnect, and those
// must not reset a customized prefix.
func (h *Handler) HandleGuildJoined(ctx context.Context, ev gateway.GuildJoined) error {
	defaults := model.DefaultSettings(ev.GuildID, ev.OwnerID)

	if err := h.store.UpsertGuild(ctx, defaults); err != nil {
		return &StoreWriteError{Op: "upsert", GuildID: ev.GuildID, Err: err}
	}
	h.cache.SetIfAbsent(ev.GuildID, defaults)

	h.logger.Info("guild joined",
		"guild_id", ev.GuildID,
		"owner_id", ev.OwnerID,
		"member_count", ev.MemberCount,
		"tracked", h.cache.Size())
	return nil
}

// HandleGuildLeft stops tracking a guild, store first, then cache. A row
// that is already gone is not an error: leave events can be redelivered.
func (h *Handler) HandleGuildLeft(ctx context.Context, ev gateway.GuildLeft) error {
	if err := h.store.DeleteGuild(ctx, ev.GuildID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return &StoreWriteError{Op: "delete", GuildID: ev.GuildID, Err: err}
	}
	h.cache.Remove(ev.GuildID)

	h.logger.Info("guild left", "guild_id", ev.GuildID, "tracked", h.cache.Size())
	return nil
}

// HandleCacheReady warms the settings cache from the store and signals the
// status loop. The event recurs on every reconnect; the full reload doubles
// as a reconciliation pass, and the status loop's own guard makes the
// signal idempotent.
func (h *Handler) HandleCacheReady(ctx context.Context, ev gateway.CacheReady) error {
	all, err := h.store.ListGuilds(ctx)
	if err != nil {
		return &StoreReadError{Op: "list guilds", Err: err}
	}
	h.cache.Replace(all)

	h.logger.Info("settings cache warmed",
		"tracked", len(all),
		"gateway_guilds", len(ev.GuildIDs))

	if h.status != nil {
		h.status.Signal()
	}
	return nil
}

// loadSettings reads a guild's settings through the cache, falling back to
// a just-in-time store load on a miss. The cache lock is never held across
// the store call.
func (h *Handler) loadSettings(ctx context.Context, guildID uint64) (model.GuildSettings, error) {
	if s, ok := h.cache.Get(guildID); ok {
		return s, nil
	}

	gs, err := h.store.GetGuild(ctx, guildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.GuildSettings{}, ErrNotFound
		}
		return model.GuildSettings{}, &StoreReadError{Op: "get guild", Err: err}
	}

	return h.cache.SetIfAbsent(guildID, *gs), nil
}
