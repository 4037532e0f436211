// Package maintenance runs periodic background tasks as Go tickers: autosave
// of the tournament snapshot and pruning of old snapshots.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// shutdownSaveTimeout bounds the final save in SaveOnShutdown.
const shutdownSaveTimeout = 5 * time.Second

// Store is the part of the snapshot store the tickers use.
type Store interface {
	Save(ctx context.Context, label string, snap tournament.Snapshot) (store.Record, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	AutosaveInterval time.Duration // Save the tournament if it changed
	PruneInterval    time.Duration // Trim snapshot history to Keep rows
	Keep             int
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		AutosaveInterval: time.Minute,
		PruneInterval:    time.Hour,
		Keep:             50,
	}
}

// Autosaver saves the session whenever its version moved since the last save.
type Autosaver struct {
	mu     sync.Mutex
	sess   *session.Session
	store  Store
	logger *slog.Logger
	saved  uint64
}

// NewAutosaver creates an Autosaver. The session's current version counts as
// already saved, so a freshly restored tournament is not written back.
func NewAutosaver(sess *session.Session, st Store, logger *slog.Logger) *Autosaver {
	return &Autosaver{sess: sess, store: st, logger: logger, saved: sess.Version()}
}

// SaveIfChanged stores a snapshot when the tournament changed. It reports
// whether a row was written.
func (a *Autosaver) SaveIfChanged(ctx context.Context, label string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, version := a.sess.Snapshot()
	if version == a.saved {
		return false, nil
	}
	rec, err := a.store.Save(ctx, label, snap)
	if err != nil {
		return false, err
	}
	a.saved = version
	a.logger.Info("Autosave: snapshot stored", "id", rec.ID, "drivers", rec.Drivers, "version", version)
	return true, nil
}

// SaveOnShutdown stores any unsaved changes under the shutdown label. Call it
// once the HTTP server has drained and Start has returned, so no mutation can
// land after the final save.
func (a *Autosaver) SaveOnShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownSaveTimeout)
	defer cancel()
	if _, err := a.SaveIfChanged(ctx, store.LabelShutdown); err != nil {
		a.logger.Warn("Shutdown save failed", "error", err)
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`; the final save is left to
// SaveOnShutdown.
func Start(ctx context.Context, saver *Autosaver, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"autosave", cfg.AutosaveInterval,
		"prune", cfg.PruneInterval,
		"keep", cfg.Keep)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.AutosaveInterval > 0 {
		t := time.NewTicker(cfg.AutosaveInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "autosave", func() {
			if _, err := saver.SaveIfChanged(ctx, store.LabelAutosave); err != nil {
				logger.Warn("Autosave: failed", "error", err)
			}
		})
	}

	if cfg.PruneInterval > 0 && cfg.Keep > 0 {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "prune", func() { prune(ctx, saver.store, cfg.Keep, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// prune deletes all but the keep newest snapshots.
func prune(ctx context.Context, st Store, keep int, logger *slog.Logger) {
	n, err := st.Prune(ctx, keep)
	if err != nil {
		logger.Warn("Prune: failed to trim snapshots", "error", err)
	} else if n > 0 {
		logger.Info("Prune: removed old snapshots", "count", n)
	}
}
