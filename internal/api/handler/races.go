package handler

import (
	"net/http"

	"github.com/Johane03/Drag-Race-Manager/internal/cache"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// RaceView is a logged race as returned by the API.
type RaceView struct {
	RaceNumber int                 `json:"race_number"`
	Driver1    string              `json:"driver1"`
	Driver2    string              `json:"driver2"`
	Driver3    *string             `json:"driver3"`
	Winner     string              `json:"winner"`
	Loser      string              `json:"loser"`
	Division   string              `json:"division"`
	RaceType   tournament.RaceType `json:"race_type"`
	Timestamp  string              `json:"timestamp"`
}

func raceView(r tournament.Race) RaceView {
	v := RaceView{
		RaceNumber: r.Number,
		Driver1:    r.Driver1,
		Driver2:    r.Driver2,
		Winner:     r.Winner,
		Loser:      r.Loser(),
		Division:   r.Division,
		RaceType:   r.Type,
		Timestamp:  r.Timestamp.Format(tournament.TimestampLayout),
	}
	if r.Driver3 != "" {
		d3 := r.Driver3
		v.Driver3 = &d3
	}
	return v
}

// RecordRace logs a race result.
// @Summary Record race
// @Description Records a race between two drivers, or three for a championship race. Fails softly on unknown drivers, a winner who did not race, mixed divisions or an eliminated driver.
// @Tags races
// @Accept json
// @Produce json
// @Param body body tournament.RaceInput true "Race"
// @Success 200 {object} tournament.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/race [post]
func (h *Handler) RecordRace(w http.ResponseWriter, r *http.Request) {
	var in tournament.RaceInput
	if !decodeBody(w, r, &in) {
		return
	}
	res := h.session.Apply(func(m *tournament.Manager) tournament.Result {
		return m.RecordRace(in)
	})
	if res.Success {
		h.logger.Info("Race recorded", "race", res.RaceNumber, "winner", in.Winner)
	}
	writeResult(w, res)
}

// GetRaces returns the race log.
// @Summary Race log
// @Description Returns every recorded race in order, including races of deleted drivers.
// @Tags races
// @Produce json
// @Param division query string false "Only races in this division"
// @Success 200 {array} RaceView
// @Router /api/races [get]
func (h *Handler) GetRaces(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	h.serveCached(w, r, "races:"+division, cache.TTLStandings, func(m *tournament.Manager) interface{} {
		out := []RaceView{}
		for _, race := range m.Races() {
			if division == "" || race.Division == division {
				out = append(out, raceView(race))
			}
		}
		return out
	})
}

// GetRankings returns the standings.
// @Summary Rankings
// @Description Active drivers first, then by wins, win ratio and fewest losses.
// @Tags standings
// @Produce json
// @Param division query string false "Only drivers in this division"
// @Success 200 {array} tournament.Ranking
// @Router /api/rankings [get]
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	h.serveCached(w, r, "rankings:"+division, cache.TTLStandings, func(m *tournament.Manager) interface{} {
		return m.Rankings(division)
	})
}

// GetStats returns tournament statistics.
// @Summary Tournament statistics
// @Tags standings
// @Produce json
// @Success 200 {object} tournament.Stats
// @Router /api/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "stats", cache.TTLStats, func(m *tournament.Manager) interface{} {
		return m.Stats()
	})
}
