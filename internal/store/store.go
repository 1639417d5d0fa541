package store

import (
	"context"

	"github.com/groblegark/warden/internal/model"
)

// Store defines the persistence interface for guild settings. The database
// is the system of record; the settings cache mirrors it in memory.
//
// All operations are single-row and auto-committed. Absence is signalled
// with sql.ErrNoRows; implementations never retry internally.
type Store interface {
	// UpsertGuild inserts a settings row for a guild with insert-or-ignore
	// semantics: a duplicate join event for an already-tracked guild neither
	// errors nor overwrites a customized prefix.
	UpsertGuild(ctx context.Context, s model.GuildSettings) error

	// UpdatePrefix sets the command prefix for a tracked guild.
	UpdatePrefix(ctx context.Context, guildID uint64, prefix string) error

	// UpdateMute sets the mute strategy for a tracked guild.
	UpdateMute(ctx context.Context, guildID uint64, muteType model.MuteType, muteRoleID uint64) error

	// GetGuild fetches the settings row for a guild.
	GetGuild(ctx context.Context, guildID uint64) (*model.GuildSettings, error)

	// ListGuilds returns all settings rows, used to warm the cache and to
	// export snapshots.
	ListGuilds(ctx context.Context) ([]model.GuildSettings, error)

	// DeleteGuild removes the settings row for a guild.
	DeleteGuild(ctx context.Context, guildID uint64) error

	// Lifecycle
	Close() error
}
