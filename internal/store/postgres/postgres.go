// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/warden/internal/model"
	"github.com/groblegark/warden/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) UpsertGuild(ctx context.Context, gs model.GuildSettings) error {
	return queryUpsertGuild(ctx, s.db, gs)
}

func (s *PostgresStore) UpdatePrefix(ctx context.Context, guildID uint64, prefix string) error {
	return queryUpdatePrefix(ctx, s.db, guildID, prefix)
}

func (s *PostgresStore) UpdateMute(ctx context.Context, guildID uint64, muteType model.MuteType, muteRoleID uint64) error {
	return queryUpdateMute(ctx, s.db, guildID, muteType, muteRoleID)
}

func (s *PostgresStore) GetGuild(ctx context.Context, guildID uint64) (*model.GuildSettings, error) {
	return queryGetGuild(ctx, s.db, guildID)
}

func (s *PostgresStore) ListGuilds(ctx context.Context) ([]model.GuildSettings, error) {
	return queryListGuilds(ctx, s.db)
}

func (s *PostgresStore) DeleteGuild(ctx context.Context, guildID uint64) error {
	return queryDeleteGuild(ctx, s.db, guildID)
}
