package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/db"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// newTestStore connects to TEST_DATABASE_URL and empties the snapshot table.
func newTestStore(t *testing.T) *Snapshots {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.New(ctx, &config.Config{
		DatabaseURL:    url,
		DBPoolMinConns: 1,
		DBPoolMaxConns: 2,
		DBPoolMaxLife:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE "+config.SnapshotsTable)
	require.NoError(t, err)
	return New(pool.Pool)
}

func TestSnapshotsSaveAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Latest(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	m := tournament.NewManager([]string{"OPEN"})
	require.True(t, m.AddDriver("Alice", "OPEN").Success)
	require.True(t, m.AddDriver("Bob", "OPEN").Success)
	require.True(t, m.RecordRace(tournament.RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Bob"}).Success)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	first, err := s.Save(ctx, "first", tournament.Snapshot{Drivers: map[string]tournament.DriverSnapshot{}})
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(time.Minute) }
	want := m.Export()
	second, err := s.Save(ctx, "second", want)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Drivers)
	assert.Equal(t, 1, second.RaceCounter)

	got, rec, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, rec.ID)
	assert.Equal(t, "second", rec.Label)
	assert.Equal(t, want, got)

	_, rec, err = s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Label)

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)

	n, err := s.Prune(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = s.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestEventReplaces(t *testing.T) {
	for label, want := range map[string]bool{
		LabelManual:       false,
		LabelAutosave:     false,
		LabelShutdown:     false,
		LabelCLIImport:    true,
		LabelRosterImport: true,
	} {
		assert.Equal(t, want, Event{Label: label}.Replaces(), label)
	}
}
