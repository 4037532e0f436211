package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// Loader returns the most recently saved snapshot.
type Loader interface {
	Latest(ctx context.Context) (tournament.Snapshot, store.Record, error)
}

// Restore loads the latest stored snapshot into sess. Having nothing saved
// yet is not an error; it reports false.
// Call this once at startup, before serving requests.
func Restore(ctx context.Context, sess *session.Session, l Loader, logger *slog.Logger) (bool, error) {
	start := time.Now()
	snap, rec, err := l.Latest(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		logger.Info("No saved tournament, starting empty")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	var importErr error
	sess.Update(func(m *tournament.Manager) bool {
		importErr = m.Import(snap)
		return importErr == nil
	})
	if importErr != nil {
		return false, fmt.Errorf("restore %s: %w", rec.ID, importErr)
	}
	logger.Info("Restored tournament",
		"id", rec.ID,
		"saved_at", rec.SavedAt,
		"drivers", rec.Drivers,
		"race_counter", rec.RaceCounter,
		"duration", time.Since(start).Round(time.Millisecond))
	return true, nil
}
