// Package store persists tournament snapshots in Postgres. Each save is a new
// row so earlier states stay available; Prune trims the history.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// ErrNoSnapshot is returned when no matching snapshot has been saved.
var ErrNoSnapshot = errors.New("no snapshot saved")

// Snapshot labels.
const (
	LabelManual       = "manual"
	LabelAutosave     = "autosave"
	LabelShutdown     = "shutdown"
	LabelCLIImport    = "cli-import"
	LabelRosterImport = "roster-import"
)

// Event is the notification payload sent on every save.
type Event struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// Replaces reports whether the saved snapshot is meant to replace the state
// of running servers, rather than being a backup of it.
func (e Event) Replaces() bool {
	return e.Label == LabelCLIImport || e.Label == LabelRosterImport
}

// Record describes a stored snapshot without its payload.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Drivers     int       `json:"drivers"`
	RaceCounter int       `json:"race_counter"`
	SavedAt     time.Time `json:"saved_at"`
}

// Snapshots reads and writes the snapshot table through prepared statements
// registered by the db package.
type Snapshots struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates a snapshot store on pool.
func New(pool *pgxpool.Pool) *Snapshots {
	return &Snapshots{pool: pool, now: time.Now}
}

// Save stores snap as a new row and announces it on the snapshot channel.
// The notification is delivered when the insert commits.
func (s *Snapshots) Save(ctx context.Context, label string, snap tournament.Snapshot) (Record, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("encode snapshot: %w", err)
	}

	rec := Record{
		ID:          uuid.New(),
		Label:       label,
		Drivers:     len(snap.Drivers),
		RaceCounter: snap.RaceCounter,
		SavedAt:     s.now().UTC(),
	}
	payload, err := json.Marshal(Event{ID: rec.ID, Label: rec.Label})
	if err != nil {
		return Record{}, fmt.Errorf("encode event: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "snapshot_insert",
		rec.ID.String(), rec.Label, data, rec.Drivers, rec.RaceCounter, rec.SavedAt); err != nil {
		return Record{}, fmt.Errorf("save snapshot: %w", err)
	}
	if _, err := tx.Exec(ctx, "snapshot_notify", string(payload)); err != nil {
		return Record{}, fmt.Errorf("notify snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("save snapshot: %w", err)
	}
	return rec, nil
}

// Latest returns the most recently saved snapshot.
func (s *Snapshots) Latest(ctx context.Context) (tournament.Snapshot, Record, error) {
	return s.load(ctx, "snapshot_latest")
}

// Get returns the snapshot with the given ID.
func (s *Snapshots) Get(ctx context.Context, id uuid.UUID) (tournament.Snapshot, Record, error) {
	return s.load(ctx, "snapshot_by_id", id.String())
}

func (s *Snapshots) load(ctx context.Context, stmt string, args ...any) (tournament.Snapshot, Record, error) {
	var (
		rec  Record
		id   string
		data []byte
	)
	err := s.pool.QueryRow(ctx, stmt, args...).
		Scan(&id, &rec.Label, &data, &rec.Drivers, &rec.RaceCounter, &rec.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return tournament.Snapshot{}, Record{}, ErrNoSnapshot
	}
	if err != nil {
		return tournament.Snapshot{}, Record{}, fmt.Errorf("load snapshot: %w", err)
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return tournament.Snapshot{}, Record{}, fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := tournament.ParseSnapshot(data)
	if err != nil {
		return tournament.Snapshot{}, Record{}, fmt.Errorf("load snapshot %s: %w", rec.ID, err)
	}
	return snap, rec, nil
}

// List returns up to limit records, newest first.
func (s *Snapshots) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, "snapshot_list", limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec Record
			id  string
		)
		if err := rows.Scan(&id, &rec.Label, &rec.Drivers, &rec.RaceCounter, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes all but the keep newest snapshots.
func (s *Snapshots) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, "snapshot_prune", keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// HealthCheck verifies the database is reachable.
func (s *Snapshots) HealthCheck(ctx context.Context) error {
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}
