package listener

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

type mapSource map[uuid.UUID]tournament.Snapshot

func (s mapSource) Get(_ context.Context, id uuid.UUID) (tournament.Snapshot, store.Record, error) {
	snap, ok := s[id]
	if !ok {
		return tournament.Snapshot{}, store.Record{}, store.ErrNoSnapshot
	}
	return snap, store.Record{ID: id, Drivers: len(snap.Drivers)}, nil
}

func payload(t *testing.T, id uuid.UUID, label string) string {
	t.Helper()
	b, err := json.Marshal(store.Event{ID: id, Label: label})
	require.NoError(t, err)
	return string(b)
}

func TestHandleEvent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	divisions := []string{"OPEN"}

	imported := tournament.NewManager(divisions)
	imported.AddDriver("Alice", "OPEN")
	importedID := uuid.New()
	src := mapSource{importedID: imported.Export()}

	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"garbage", "not json", false},
		{"autosave is ignored", payload(t, importedID, store.LabelAutosave), false},
		{"manual save is ignored", payload(t, importedID, store.LabelManual), false},
		{"unknown snapshot", payload(t, uuid.New(), store.LabelCLIImport), false},
		{"cli import", payload(t, importedID, store.LabelCLIImport), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New(tournament.NewManager(divisions))
			got := handleEvent(context.Background(), src, sess, tt.payload, logger)
			assert.Equal(t, tt.want, got)

			sess.View(func(m *tournament.Manager) {
				_, found := m.Driver("Alice")
				assert.Equal(t, tt.want, found)
			})
		})
	}
}
