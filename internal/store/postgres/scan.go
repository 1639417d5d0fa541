package postgres

import (
	"database/sql"

	"github.com/groblegark/warden/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanSettings scans a single row into a model.GuildSettings.
// The row must contain columns in the order defined by settingsColumns.
func scanSettings(row scannable) (*model.GuildSettings, error) {
	var (
		gs       model.GuildSettings
		guildID  int64
		ownerID  int64
		muteType string
		muteRole int64
	)

	err := row.Scan(
		&guildID,
		&gs.Prefix,
		&ownerID,
		&muteType,
		&muteRole,
		&gs.CreatedAt,
		&gs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	gs.GuildID = uint64(guildID)
	gs.OwnerID = uint64(ownerID)
	gs.MuteType = model.MuteType(muteType)
	gs.MuteRoleID = uint64(muteRole)

	return &gs, nil
}

func scanSettingsList(rows *sql.Rows) ([]model.GuildSettings, error) {
	var all []model.GuildSettings
	for rows.Next() {
		gs, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *gs)
	}
	return all, rows.Err()
}
