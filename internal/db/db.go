// Package db provides a pgxpool-based connection pool with prepared statement
// registration and schema setup.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Johane03/Drag-Race-Manager/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// The snapshot table must exist before statements referencing it can be
	// prepared on new connections.
	if err := migrateWith(ctx, poolCfg.ConnConfig.Copy()); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func migrateWith(ctx context.Context, connCfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer conn.Close(context.Background())
	return Migrate(ctx, conn)
}

// snapshotSchema creates the snapshot table. data is JSON rather than JSONB:
// JSONB reorders object keys, and the order of the drivers object is the
// registration order that ranking ties fall back to.
const snapshotSchema = `
		CREATE TABLE IF NOT EXISTS ` + config.SnapshotsTable + ` (
			id           UUID PRIMARY KEY,
			label        TEXT NOT NULL,
			data         JSON NOT NULL,
			drivers      INTEGER NOT NULL,
			race_counter INTEGER NOT NULL,
			saved_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_` + config.SnapshotsTable + `_saved_at
			ON ` + config.SnapshotsTable + ` (saved_at DESC)`

// Migrate creates the snapshot table if it does not exist.
func Migrate(ctx context.Context, db Execer) error {
	_, err := db.Exec(ctx, snapshotSchema)
	if err != nil {
		return fmt.Errorf("migrate %s: %w", config.SnapshotsTable, err)
	}
	return nil
}

// registerPreparedStatements registers all statements the API and CLI use.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Snapshots
		"snapshot_insert": "INSERT INTO " + config.SnapshotsTable + " (id, label, data, drivers, race_counter, saved_at) VALUES ($1, $2, $3, $4, $5, $6)",
		"snapshot_latest": "SELECT id, label, data, drivers, race_counter, saved_at FROM " + config.SnapshotsTable + " ORDER BY saved_at DESC LIMIT 1",
		"snapshot_by_id":  "SELECT id, label, data, drivers, race_counter, saved_at FROM " + config.SnapshotsTable + " WHERE id = $1",
		"snapshot_list":   "SELECT id, label, drivers, race_counter, saved_at FROM " + config.SnapshotsTable + " ORDER BY saved_at DESC LIMIT $1",
		"snapshot_prune":  "DELETE FROM " + config.SnapshotsTable + " WHERE id NOT IN (SELECT id FROM " + config.SnapshotsTable + " ORDER BY saved_at DESC LIMIT $1)",
		"snapshot_notify": "SELECT pg_notify('" + config.SnapshotsChannel + "', $1)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
