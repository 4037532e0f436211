// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps a
// running server in step with snapshots stored by the CLI. It holds a
// dedicated pgx connection (not from the pool) listening on the
// snapshot_saved channel.
//
// When `dragrace snapshot import` or `dragrace roster import` stores a
// snapshot, the server loads it and replaces its tournament. Backups written
// by servers themselves (manual, autosave, shutdown) are ignored.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

const (
	channel          = config.SnapshotsChannel
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Source loads a stored snapshot by ID. *store.Snapshots satisfies it.
type Source interface {
	Get(ctx context.Context, id uuid.UUID) (tournament.Snapshot, store.Record, error)
}

// Start opens a dedicated connection and listens on the snapshot channel. It
// reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, src Source, sess *session.Session, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, src, sess, logger)
		if ctx.Err() != nil {
			logger.Info("Snapshot listener stopped (context cancelled)")
			return
		}

		logger.Error("Snapshot listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, src Source, sess *session.Session, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Snapshot listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		// Imports are rare and must apply in order, so handle inline.
		handleEvent(ctx, src, sess, notification.Payload, logger)
	}
}

// handleEvent applies one notification payload. It reports whether the
// tournament was replaced.
func handleEvent(ctx context.Context, src Source, sess *session.Session, payload string, logger *slog.Logger) bool {
	var event store.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.Warn("Failed to parse snapshot event", "payload", payload, "error", err)
		return false
	}
	if !event.Replaces() {
		logger.Debug("Snapshot event ignored", "id", event.ID, "label", event.Label)
		return false
	}

	snap, rec, err := src.Get(ctx, event.ID)
	if err != nil {
		logger.Warn("Failed to load announced snapshot", "id", event.ID, "error", err)
		return false
	}

	var importErr error
	sess.Update(func(m *tournament.Manager) bool {
		importErr = m.Import(snap)
		return importErr == nil
	})
	if importErr != nil {
		logger.Warn("Failed to apply announced snapshot", "id", rec.ID, "error", importErr)
		return false
	}
	logger.Info("Tournament replaced from stored snapshot",
		"id", rec.ID,
		"label", rec.Label,
		"drivers", rec.Drivers,
		"race_counter", rec.RaceCounter)
	return true
}
