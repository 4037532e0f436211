package tournament

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDriver(t *testing.T) {
	d := NewDriver("Alice", "OPEN")
	assert.Equal(t, "Alice", d.Name)
	assert.Equal(t, "OPEN", d.Division)
	assert.Zero(t, d.Wins)
	assert.Zero(t, d.Losses)
	assert.Empty(t, d.Races)
	assert.Equal(t, StatusActive, d.Status)
	assert.Zero(t, d.WinRatio())
}

func TestDriverAddRaceResult(t *testing.T) {
	d := NewDriver("Bob", "OPEN")

	d.AddRaceResult(1, true)
	d.AddRaceResult(4, false)
	d.AddRaceResult(7, false)
	assert.Equal(t, []int{1, 4, 7}, d.Races)
	assert.Equal(t, 1, d.Wins)
	assert.Equal(t, 2, d.Losses)
	assert.Equal(t, 3, d.TotalRaces())
	assert.InDelta(t, 1.0/3.0, d.WinRatio(), 1e-9)
	assert.Equal(t, StatusActive, d.Status)

	d.AddRaceResult(9, false)
	assert.True(t, d.IsEliminated())
	assert.Equal(t, StatusEliminated, d.Status)
}

func TestDriverStatusRecomputedFromInactive(t *testing.T) {
	d := &Driver{Name: "Carol", Division: "DAMES", Status: StatusInactive}
	d.AddRaceResult(1, true)
	assert.Equal(t, StatusActive, d.Status)
}

func TestDriverSnapshotCopiesRaces(t *testing.T) {
	d := NewDriver("Dave", "OPEN")
	d.AddRaceResult(2, true)

	s := d.Snapshot()
	s.Races[0] = 99
	assert.Equal(t, []int{2}, d.Races)
}

func TestRaceLoser(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		race Race
		want string
	}{
		{
			name: "driver1 wins",
			race: Race{Driver1: "A", Driver2: "B", Winner: "A", Type: RaceRegular, Timestamp: ts},
			want: "B",
		},
		{
			name: "driver2 wins",
			race: Race{Driver1: "A", Driver2: "B", Winner: "B", Type: RaceRegular, Timestamp: ts},
			want: "A",
		},
		{
			name: "championship lists every non-winner",
			race: Race{Driver1: "A", Driver2: "B", Driver3: "C", Winner: "B", Type: RaceChampionship, Timestamp: ts},
			want: "A, C",
		},
		{
			name: "championship without third driver",
			race: Race{Driver1: "A", Driver2: "B", Winner: "A", Type: RaceChampionship, Timestamp: ts},
			want: "B",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.race.Loser())
		})
	}
}

func TestRaceSnapshot(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	r := Race{Number: 3, Driver1: "A", Driver2: "B", Winner: "A", Division: "OPEN", Type: RaceRegular, Timestamp: ts}

	s := r.Snapshot()
	assert.Equal(t, 3, s.RaceNumber)
	assert.Nil(t, s.Driver3)
	assert.Equal(t, "2025-03-01T12:30:00Z", s.Timestamp)

	r.Driver3 = "C"
	s = r.Snapshot()
	if assert.NotNil(t, s.Driver3) {
		assert.Equal(t, "C", *s.Driver3)
	}
}
