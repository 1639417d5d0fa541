package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groblegark/warden/internal/model"
)

// settingsColumns is the column list used for SELECT statements on the
// guild_settings table.
const settingsColumns = `guild_id, prefix, owner_id, mute_type, mute_role, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Guild and role ids are stored as BIGINT; the platform hands out uint64
// snowflakes, so they round-trip through int64 at the SQL boundary.

func queryUpsertGuild(ctx context.Context, db executor, gs model.GuildSettings) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, prefix, owner_id, mute_type, mute_role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guild_id) DO NOTHING`,
		int64(gs.GuildID),
		gs.Prefix,
		int64(gs.OwnerID),
		string(gs.MuteType),
		int64(gs.MuteRoleID),
	)
	return err
}

func queryUpdatePrefix(ctx context.Context, db executor, guildID uint64, prefix string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE guild_settings SET prefix = $1, updated_at = NOW()
		WHERE guild_id = $2`,
		prefix, int64(guildID),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryUpdateMute(ctx context.Context, db executor, guildID uint64, muteType model.MuteType, muteRoleID uint64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE guild_settings SET mute_type = $1, mute_role = $2, updated_at = NOW()
		WHERE guild_id = $3`,
		string(muteType), int64(muteRoleID), int64(guildID),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryGetGuild(ctx context.Context, db executor, guildID uint64) (*model.GuildSettings, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+settingsColumns+`
		FROM guild_settings WHERE guild_id = $1`, int64(guildID))
	return scanSettings(row)
}

func queryListGuilds(ctx context.Context, db executor) ([]model.GuildSettings, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+settingsColumns+`
		FROM guild_settings ORDER BY guild_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSettingsList(rows)
}

func queryDeleteGuild(ctx context.Context, db executor, guildID uint64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM guild_settings WHERE guild_id = $1`, int64(guildID))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow converts a zero-row write into sql.ErrNoRows so callers can
// distinguish "guild not tracked" from a successful single-row write.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
