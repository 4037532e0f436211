// Package tournament holds the drag racing tournament state machine: driver
// registration, race recording with elimination rules, rankings and
// statistics, and snapshot import/export.
//
// A Manager is not safe for concurrent use. Callers that share one across
// goroutines must serialize mutations and keep reads off while a mutation
// runs (see the api/handler package).
package tournament

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Result is the outcome of a tournament operation. Invalid input is reported
// through Success=false and a message, never through an error.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RaceNumber int    `json:"race_number,omitempty"`
}

func succeed(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// RaceInput describes a race to record. Driver3 is optional and RaceType
// defaults to regular.
type RaceInput struct {
	Driver1  string   `json:"driver1"`
	Driver2  string   `json:"driver2"`
	Winner   string   `json:"winner"`
	Driver3  string   `json:"driver3,omitempty"`
	RaceType RaceType `json:"race_type,omitempty"`
}

// Ranking is one row of the standings.
type Ranking struct {
	Position   int     `json:"position"`
	Name       string  `json:"name"`
	Division   string  `json:"division"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	TotalRaces int     `json:"total_races"`
	WinRatio   float64 `json:"win_ratio"`
	Status     Status  `json:"status"`
}

// Stats summarizes the tournament.
type Stats struct {
	TotalDrivers      int `json:"total_drivers"`
	ActiveDrivers     int `json:"active_drivers"`
	EliminatedDrivers int `json:"eliminated_drivers"`
	TotalRaces        int `json:"total_races"`
	Divisions         int `json:"divisions"`
}

// Manager owns the drivers and the race log of one tournament.
type Manager struct {
	drivers     map[string]*Driver
	order       []string // iteration order of drivers
	races       []Race
	raceCounter int

	divisions   []string
	divisionSet map[string]struct{}

	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used to stamp new races.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty tournament over a fixed set of divisions.
func NewManager(divisions []string, opts ...Option) *Manager {
	m := &Manager{
		drivers:     make(map[string]*Driver),
		divisions:   slices.Clone(divisions),
		divisionSet: make(map[string]struct{}, len(divisions)),
		now:         time.Now,
	}
	for _, d := range divisions {
		m.divisionSet[d] = struct{}{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// Divisions returns the fixed division list.
func (m *Manager) Divisions() []string {
	return slices.Clone(m.divisions)
}

// HasDivision reports whether division is one of the tournament's divisions.
func (m *Manager) HasDivision(division string) bool {
	_, ok := m.divisionSet[division]
	return ok
}

// Driver returns a copy of the named driver.
func (m *Manager) Driver(name string) (Driver, bool) {
	d, ok := m.drivers[name]
	if !ok {
		return Driver{}, false
	}
	return d.clone(), true
}

// Drivers returns copies of all drivers in iteration order.
func (m *Manager) Drivers() []Driver {
	out := make([]Driver, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.drivers[name].clone())
	}
	return out
}

// Races returns the race log ordered by race number.
func (m *Manager) Races() []Race {
	return slices.Clone(m.races)
}

// RaceCounter returns the number of the most recently assigned race.
func (m *Manager) RaceCounter() int {
	return m.raceCounter
}

// Rankings returns the standings, optionally limited to one division.
// Active drivers come first, then more wins, higher win ratio and fewer
// losses. Remaining ties keep driver iteration order.
func (m *Manager) Rankings(division string) []Ranking {
	ranked := make([]*Driver, 0, len(m.order))
	for _, name := range m.order {
		d := m.drivers[name]
		if division == "" || d.Division == division {
			ranked = append(ranked, d)
		}
	}

	slices.SortStableFunc(ranked, func(a, b *Driver) int {
		return cmp.Or(
			compareBool(a.Status == StatusEliminated, b.Status == StatusEliminated),
			cmp.Compare(b.Wins, a.Wins),
			cmp.Compare(b.WinRatio(), a.WinRatio()),
			cmp.Compare(a.Losses, b.Losses),
		)
	})

	out := make([]Ranking, len(ranked))
	for i, d := range ranked {
		out[i] = Ranking{
			Position:   i + 1,
			Name:       d.Name,
			Division:   d.Division,
			Wins:       d.Wins,
			Losses:     d.Losses,
			TotalRaces: d.TotalRaces(),
			WinRatio:   d.WinRatio(),
			Status:     d.Status,
		}
	}
	return out
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// ActiveDrivers returns the names of drivers in division whose status is
// exactly ACTIVE.
func (m *Manager) ActiveDrivers(division string) []string {
	names := []string{}
	for _, name := range m.order {
		d := m.drivers[name]
		if d.Division == division && d.Status == StatusActive {
			names = append(names, name)
		}
	}
	return names
}

// Stats returns driver and race counts. Divisions counts only divisions that
// currently have at least one driver.
func (m *Manager) Stats() Stats {
	s := Stats{
		TotalDrivers: len(m.drivers),
		TotalRaces:   len(m.races),
	}
	seen := make(map[string]struct{})
	for _, d := range m.drivers {
		switch d.Status {
		case StatusActive:
			s.ActiveDrivers++
		case StatusEliminated:
			s.EliminatedDrivers++
		}
		seen[d.Division] = struct{}{}
	}
	s.Divisions = len(seen)
	return s
}

// --------------------------------------------------------------------------
// Mutations
// --------------------------------------------------------------------------

// AddDriver registers a new driver with an empty record.
func (m *Manager) AddDriver(name, division string) Result {
	name = strings.TrimSpace(name)
	if name == "" || m.exists(name) {
		return fail("Driver '%s' already exists or is empty", name)
	}
	if !m.HasDivision(division) {
		return fail("Invalid division: %s", division)
	}

	m.insert(NewDriver(name, division))
	return succeed("Successfully added %s to %s", name, division)
}

// RecordRace validates and logs a race, then credits the winner and charges
// every other participant a loss.
func (m *Manager) RecordRace(in RaceInput) Result {
	d1, ok1 := m.drivers[in.Driver1]
	d2, ok2 := m.drivers[in.Driver2]
	if !ok1 || !ok2 {
		return fail("Driver not found")
	}

	participants := []string{in.Driver1, in.Driver2}
	if in.Driver3 != "" {
		participants = append(participants, in.Driver3)
	}
	if !slices.Contains(participants, in.Winner) {
		return fail("Winner must be one of the racing drivers")
	}

	if d1.Division != d2.Division {
		return fail("Drivers must be in the same division")
	}
	if d1.IsEliminated() || d2.IsEliminated() {
		return fail("Eliminated drivers cannot race")
	}

	// The third driver's division and elimination state are not checked,
	// but it must exist so results can be applied to every participant.
	if in.Driver3 != "" && !m.exists(in.Driver3) {
		return fail("Driver not found")
	}

	raceType := in.RaceType
	if raceType == "" {
		raceType = RaceRegular
	}

	m.raceCounter++
	number := m.raceCounter
	m.races = append(m.races, Race{
		Number:    number,
		Driver1:   in.Driver1,
		Driver2:   in.Driver2,
		Driver3:   in.Driver3,
		Winner:    in.Winner,
		Division:  d1.Division,
		Type:      raceType,
		Timestamp: m.now(),
	})

	m.drivers[in.Winner].AddRaceResult(number, true)
	for _, name := range participants {
		if name != in.Winner {
			m.drivers[name].AddRaceResult(number, false)
		}
	}

	res := succeed("Race %d: %s wins!", number, in.Winner)
	res.RaceNumber = number
	return res
}

// UpdateDriver renames a driver and/or moves them to another division.
// Logged races keep the old name.
func (m *Manager) UpdateDriver(driverName, newName, newDivision string) Result {
	newName = strings.TrimSpace(newName)
	newDivision = strings.TrimSpace(newDivision)

	if newName == "" || newDivision == "" {
		return fail("Name and division are required")
	}
	if !m.HasDivision(newDivision) {
		return fail("Invalid division: %s", newDivision)
	}
	d, ok := m.drivers[driverName]
	if !ok {
		return fail("Driver %s not found", driverName)
	}
	if newName != driverName && m.exists(newName) {
		return fail("Driver %s already exists", newName)
	}

	if newName != driverName {
		m.remove(driverName)
		d.Name = newName
		m.insert(d)
	}
	d.Division = newDivision

	return succeed("Driver updated successfully")
}

// DeleteDriver removes a driver. Races they ran in stay in the log.
func (m *Manager) DeleteDriver(name string) Result {
	if !m.exists(name) {
		return fail("Driver %s not found", name)
	}
	m.remove(name)
	return succeed("Driver %s deleted successfully", name)
}

func (m *Manager) exists(name string) bool {
	_, ok := m.drivers[name]
	return ok
}

func (m *Manager) insert(d *Driver) {
	m.drivers[d.Name] = d
	m.order = append(m.order, d.Name)
}

func (m *Manager) remove(name string) {
	delete(m.drivers, name)
	if i := slices.Index(m.order, name); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}
