package tournament

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDivisions = []string{
	"2X4_4CYL", "4X4_4CYL", "4X4_6CYL_PETROL",
	"4X4_6CYL_DIESEL", "4X4_V8_PETROL", "4X4_V8_DIESEL",
	"DAMES", "OPEN",
}

var testTime = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, drivers map[string]string) *Manager {
	t.Helper()
	m := NewManager(testDivisions, WithClock(func() time.Time { return testTime }))
	for _, name := range sortedKeys(drivers) {
		res := m.AddDriver(name, drivers[name])
		require.True(t, res.Success, res.Message)
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mustRace(t *testing.T, m *Manager, in RaceInput) Result {
	t.Helper()
	res := m.RecordRace(in)
	require.True(t, res.Success, res.Message)
	return res
}

func TestAddDriver(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN"})

	tests := []struct {
		name     string
		driver   string
		division string
		success  bool
		message  string
	}{
		{"new driver", "Bob", "OPEN", true, "Successfully added Bob to OPEN"},
		{"trims whitespace", "  Carol  ", "DAMES", true, "Successfully added Carol to DAMES"},
		{"empty name", "", "OPEN", false, "Driver '' already exists or is empty"},
		{"whitespace name", "   ", "OPEN", false, "Driver '' already exists or is empty"},
		{"duplicate", "Alice", "DAMES", false, "Driver 'Alice' already exists or is empty"},
		{"duplicate after trim", " Alice ", "OPEN", false, "Driver 'Alice' already exists or is empty"},
		{"invalid division", "Dave", "F1", false, "Invalid division: F1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.AddDriver(tt.driver, tt.division)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.message, res.Message)
		})
	}

	d, ok := m.Driver("Carol")
	require.True(t, ok)
	assert.Equal(t, StatusActive, d.Status)
	assert.Empty(t, d.Races)
}

func TestRecordRaceExample(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN"})

	res := mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})
	assert.Equal(t, 1, res.RaceNumber)
	assert.Equal(t, "Race 1: Alice wins!", res.Message)

	alice, _ := m.Driver("Alice")
	bob, _ := m.Driver("Bob")
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, 1, bob.Losses)

	mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})
	mustRace(t, m, RaceInput{Driver1: "Bob", Driver2: "Alice", Winner: "Alice"})

	bob, _ = m.Driver("Bob")
	assert.Equal(t, 3, bob.Losses)
	assert.Equal(t, StatusEliminated, bob.Status)
	assert.Equal(t, []int{1, 2, 3}, bob.Races)

	res = m.RecordRace(RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})
	assert.False(t, res.Success)
	assert.Equal(t, "Eliminated drivers cannot race", res.Message)
	assert.Equal(t, 3, m.RaceCounter())
}

func TestRecordRaceValidation(t *testing.T) {
	m := newTestManager(t, map[string]string{
		"Alice": "OPEN",
		"Bob":   "OPEN",
		"Carol": "DAMES",
		"Dave":  "OPEN",
	})
	for i := 0; i < 3; i++ {
		mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Dave", Winner: "Alice"})
	}

	tests := []struct {
		name    string
		in      RaceInput
		message string
	}{
		{"unknown driver1", RaceInput{Driver1: "Zed", Driver2: "Bob", Winner: "Bob"}, "Driver not found"},
		{"unknown driver2", RaceInput{Driver1: "Alice", Driver2: "Zed", Winner: "Alice"}, "Driver not found"},
		{"winner not racing", RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Carol"}, "Winner must be one of the racing drivers"},
		{"winner checked before division", RaceInput{Driver1: "Alice", Driver2: "Carol", Winner: "Bob"}, "Winner must be one of the racing drivers"},
		{"different divisions", RaceInput{Driver1: "Alice", Driver2: "Carol", Winner: "Alice"}, "Drivers must be in the same division"},
		{"eliminated driver2", RaceInput{Driver1: "Alice", Driver2: "Dave", Winner: "Alice"}, "Eliminated drivers cannot race"},
		{"eliminated driver1", RaceInput{Driver1: "Dave", Driver2: "Bob", Winner: "Bob"}, "Eliminated drivers cannot race"},
		{"unknown driver3", RaceInput{Driver1: "Alice", Driver2: "Bob", Driver3: "Zed", Winner: "Alice", RaceType: RaceChampionship}, "Driver not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := m.Export()
			res := m.RecordRace(tt.in)
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Zero(t, res.RaceNumber)
			assert.Equal(t, before, m.Export(), "failed race must not change state")
		})
	}
}

func TestRecordRaceChampionship(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN", "Carol": "DAMES"})

	res := mustRace(t, m, RaceInput{
		Driver1:  "Alice",
		Driver2:  "Bob",
		Driver3:  "Carol",
		Winner:   "Carol",
		RaceType: RaceChampionship,
	})
	assert.Equal(t, "Race 1: Carol wins!", res.Message)

	races := m.Races()
	require.Len(t, races, 1)
	assert.Equal(t, "OPEN", races[0].Division)
	assert.Equal(t, RaceChampionship, races[0].Type)
	assert.Equal(t, "Alice, Bob", races[0].Loser())
	assert.Equal(t, testTime, races[0].Timestamp)

	carol, _ := m.Driver("Carol")
	alice, _ := m.Driver("Alice")
	bob, _ := m.Driver("Bob")
	assert.Equal(t, 1, carol.Wins)
	assert.Equal(t, 1, alice.Losses)
	assert.Equal(t, 1, bob.Losses)
}

func TestRecordRaceDefaultsToRegular(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN"})
	mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Bob"})
	assert.Equal(t, RaceRegular, m.Races()[0].Type)
}

func TestRecordRaceCounters(t *testing.T) {
	drivers := map[string]string{"A": "OPEN", "B": "OPEN", "C": "OPEN", "D": "OPEN"}
	m := newTestManager(t, drivers)

	races := []RaceInput{
		{Driver1: "A", Driver2: "B", Winner: "A"},
		{Driver1: "C", Driver2: "D", Winner: "D"},
		{Driver1: "A", Driver2: "D", Driver3: "C", Winner: "A", RaceType: RaceChampionship},
		{Driver1: "B", Driver2: "C", Winner: "C"},
		{Driver1: "A", Driver2: "B", Winner: "Q"}, // rejected
		{Driver1: "D", Driver2: "B", Winner: "B"},
	}

	n, slots := 0, 0
	for _, in := range races {
		before := m.RaceCounter()
		res := m.RecordRace(in)
		if !res.Success {
			assert.Equal(t, before, m.RaceCounter())
			continue
		}
		assert.Equal(t, before+1, m.RaceCounter())
		n++
		slots += 2
		if in.Driver3 != "" {
			slots++
		}
	}

	wins, losses := 0, 0
	for _, d := range m.Drivers() {
		wins += d.Wins
		losses += d.Losses
		assert.Equal(t, d.Losses >= EliminationLosses, d.Status == StatusEliminated)
	}
	assert.Equal(t, n, wins)
	assert.Equal(t, slots-n, losses)
}

func TestRankings(t *testing.T) {
	m := newTestManager(t, nil)
	for _, name := range []string{"Ann", "Ben", "Cal", "Dee", "Eve", "Fox"} {
		require.True(t, m.AddDriver(name, "OPEN").Success)
	}
	require.True(t, m.AddDriver("Gus", "DAMES").Success)
	require.True(t, m.AddDriver("Hal", "DAMES").Success)

	// Ann 2-0, Ben 2-1, Cal 0-3 (eliminated), Dee 1-0, Eve 0-0, Fox 1-2
	mustRace(t, m, RaceInput{Driver1: "Ann", Driver2: "Cal", Winner: "Ann"})
	mustRace(t, m, RaceInput{Driver1: "Ben", Driver2: "Cal", Winner: "Ben"})
	mustRace(t, m, RaceInput{Driver1: "Ben", Driver2: "Fox", Winner: "Ben"})
	mustRace(t, m, RaceInput{Driver1: "Fox", Driver2: "Cal", Winner: "Fox"})
	mustRace(t, m, RaceInput{Driver1: "Ann", Driver2: "Ben", Winner: "Ann"})
	mustRace(t, m, RaceInput{Driver1: "Dee", Driver2: "Fox", Winner: "Dee"})
	mustRace(t, m, RaceInput{Driver1: "Gus", Driver2: "Hal", Winner: "Hal"})

	open := m.Rankings("OPEN")
	names := make([]string, len(open))
	for i, r := range open {
		names[i] = r.Name
		assert.Equal(t, i+1, r.Position)
	}
	assert.Equal(t, []string{"Ann", "Ben", "Dee", "Fox", "Eve", "Cal"}, names)

	cal := open[len(open)-1]
	assert.Equal(t, StatusEliminated, cal.Status)
	assert.Equal(t, 3, cal.TotalRaces)
	assert.Zero(t, cal.WinRatio)

	all := m.Rankings("")
	require.Len(t, all, 8)
	assert.Equal(t, "Ann", all[0].Name)
	assert.Equal(t, "Cal", all[7].Name)
}

func TestRankingsEliminatedBelowActive(t *testing.T) {
	m := newTestManager(t, nil)
	require.NoError(t, m.Import(Snapshot{
		Drivers: map[string]DriverSnapshot{
			"Vet":  {Name: "Vet", Division: "OPEN", Wins: 9, Losses: 3, Status: StatusEliminated},
			"Rook": {Name: "Rook", Division: "OPEN", Wins: 0, Losses: 1, Status: StatusActive},
		},
		Order: []string{"Vet", "Rook"},
	}))

	r := m.Rankings("OPEN")
	require.Len(t, r, 2)
	assert.Equal(t, "Rook", r[0].Name)
	assert.Equal(t, "Vet", r[1].Name)
}

func TestRankingsTiesKeepInsertionOrder(t *testing.T) {
	m := newTestManager(t, nil)
	for _, name := range []string{"Zoe", "Amy", "Max"} {
		require.True(t, m.AddDriver(name, "OPEN").Success)
	}
	r := m.Rankings("OPEN")
	assert.Equal(t, "Zoe", r[0].Name)
	assert.Equal(t, "Amy", r[1].Name)
	assert.Equal(t, "Max", r[2].Name)

	// A rename moves the driver to the end of iteration order.
	require.True(t, m.UpdateDriver("Zoe", "Zara", "OPEN").Success)
	r = m.Rankings("OPEN")
	assert.Equal(t, "Zara", r[2].Name)
}

func TestActiveDrivers(t *testing.T) {
	m := newTestManager(t, nil)
	require.NoError(t, m.Import(Snapshot{
		Drivers: map[string]DriverSnapshot{
			"A": {Name: "A", Division: "OPEN", Status: StatusActive},
			"B": {Name: "B", Division: "OPEN", Losses: 3, Status: StatusEliminated},
			"C": {Name: "C", Division: "OPEN", Status: StatusInactive},
			"D": {Name: "D", Division: "DAMES", Status: StatusActive},
			"E": {Name: "E", Division: "OPEN", Status: StatusActive},
		},
		Order: []string{"A", "B", "C", "D", "E"},
	}))

	assert.Equal(t, []string{"A", "E"}, m.ActiveDrivers("OPEN"))
	assert.Equal(t, []string{"D"}, m.ActiveDrivers("DAMES"))
	assert.Empty(t, m.ActiveDrivers("2X4_4CYL"))
}

func TestStats(t *testing.T) {
	m := newTestManager(t, map[string]string{"A": "OPEN", "B": "OPEN", "C": "DAMES"})
	for i := 0; i < 3; i++ {
		mustRace(t, m, RaceInput{Driver1: "A", Driver2: "B", Winner: "A"})
	}

	assert.Equal(t, Stats{
		TotalDrivers:      3,
		ActiveDrivers:     2,
		EliminatedDrivers: 1,
		TotalRaces:        3,
		Divisions:         2,
	}, m.Stats())

	assert.Equal(t, Stats{}, NewManager(testDivisions).Stats())
}

func TestUpdateDriver(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN"})
	mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})

	tests := []struct {
		name     string
		driver   string
		newName  string
		division string
		success  bool
		message  string
	}{
		{"empty name", "Alice", "  ", "OPEN", false, "Name and division are required"},
		{"empty division", "Alice", "Alice", " ", false, "Name and division are required"},
		{"invalid division", "Alice", "Alice", "F1", false, "Invalid division: F1"},
		{"unknown driver", "Zed", "Zed", "OPEN", false, "Driver Zed not found"},
		{"name taken", "Alice", "Bob", "OPEN", false, "Driver Bob already exists"},
		{"division only", "Bob", "Bob", "DAMES", true, "Driver updated successfully"},
		{"rename", "Alice", " Alicia ", "OPEN", true, "Driver updated successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.UpdateDriver(tt.driver, tt.newName, tt.division)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.message, res.Message)
		})
	}

	_, ok := m.Driver("Alice")
	assert.False(t, ok)
	alicia, ok := m.Driver("Alicia")
	require.True(t, ok)
	assert.Equal(t, "Alicia", alicia.Name)
	assert.Equal(t, 1, alicia.Wins)
	assert.Equal(t, []int{1}, alicia.Races)

	bob, _ := m.Driver("Bob")
	assert.Equal(t, "DAMES", bob.Division)

	// The race log still names the old driver.
	assert.Equal(t, "Alice", m.Races()[0].Winner)
}

func TestDeleteDriver(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN"})
	mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Bob"})

	res := m.DeleteDriver("Bob")
	assert.True(t, res.Success)
	assert.Equal(t, "Driver Bob deleted successfully", res.Message)

	res = m.DeleteDriver("Bob")
	assert.False(t, res.Success)
	assert.Equal(t, "Driver Bob not found", res.Message)

	assert.Len(t, m.Rankings(""), 1)
	assert.Equal(t, []string{"Alice"}, m.ActiveDrivers("OPEN"))
	races := m.Races()
	require.Len(t, races, 1)
	assert.Equal(t, "Bob", races[0].Winner)
	assert.Equal(t, "Alice", races[0].Loser())

	// Race numbers are never reused after a delete.
	require.True(t, m.AddDriver("Bob", "OPEN").Success)
	res = mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})
	assert.Equal(t, 2, res.RaceNumber)
}

func TestDriversReturnsCopies(t *testing.T) {
	m := newTestManager(t, map[string]string{"Alice": "OPEN", "Bob": "OPEN"})
	mustRace(t, m, RaceInput{Driver1: "Alice", Driver2: "Bob", Winner: "Alice"})

	ds := m.Drivers()
	ds[0].Wins = 100
	ds[0].Races[0] = 42

	alice, _ := m.Driver("Alice")
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, []int{1}, alice.Races)
}
