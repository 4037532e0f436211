package tournament

import (
	"strings"
	"time"
)

// RaceType distinguishes head-to-head races from three-way finals.
type RaceType string

const (
	RaceRegular      RaceType = "regular"
	RaceChampionship RaceType = "championship"
)

// Race is one completed race. Races are never changed once logged.
type Race struct {
	Number    int
	Driver1   string
	Driver2   string
	Driver3   string // empty unless a third driver ran
	Winner    string
	Division  string
	Type      RaceType
	Timestamp time.Time
}

// Participants returns the drivers in starting order.
func (r Race) Participants() []string {
	if r.Driver3 != "" {
		return []string{r.Driver1, r.Driver2, r.Driver3}
	}
	return []string{r.Driver1, r.Driver2}
}

// Loser returns the non-winning driver. For a championship race with a third
// driver it lists every non-winner, comma separated.
func (r Race) Loser() string {
	if r.Type == RaceChampionship && r.Driver3 != "" {
		losers := make([]string, 0, 2)
		for _, name := range r.Participants() {
			if name != r.Winner {
				losers = append(losers, name)
			}
		}
		return strings.Join(losers, ", ")
	}
	if r.Winner == r.Driver1 {
		return r.Driver2
	}
	return r.Driver1
}

// Snapshot returns the serializable form of the race.
func (r Race) Snapshot() RaceSnapshot {
	s := RaceSnapshot{
		RaceNumber: r.Number,
		Driver1:    r.Driver1,
		Driver2:    r.Driver2,
		Winner:     r.Winner,
		Division:   r.Division,
		Timestamp:  r.Timestamp.Format(TimestampLayout),
		RaceType:   r.Type,
	}
	if r.Driver3 != "" {
		d3 := r.Driver3
		s.Driver3 = &d3
	}
	return s
}
