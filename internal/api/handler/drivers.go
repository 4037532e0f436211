package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Johane03/Drag-Race-Manager/internal/api/respond"
	"github.com/Johane03/Drag-Race-Manager/internal/cache"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// DriverRequest is the body for creating or updating a driver.
type DriverRequest struct {
	Name     string `json:"name"`
	Division string `json:"division"`
}

// pathParam returns the URL parameter key as a plain string. chi matches on
// the decoded path unless the request carries a RawPath (an escaped "/" in a
// name), and only then is the parameter still escaped.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

// GetDrivers lists every driver with their record.
// @Summary List drivers
// @Description Returns all drivers in registration order.
// @Tags drivers
// @Produce json
// @Success 200 {array} tournament.DriverSnapshot
// @Router /api/drivers [get]
func (h *Handler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	var out []tournament.DriverSnapshot
	h.session.View(func(m *tournament.Manager) {
		drivers := m.Drivers()
		out = make([]tournament.DriverSnapshot, len(drivers))
		for i := range drivers {
			out[i] = drivers[i].Snapshot()
		}
	})
	respond.WriteJSONObject(w, http.StatusOK, out)
}

// AddDriver registers a driver.
// @Summary Add driver
// @Description Adds a driver to a division. Fails softly on an empty or duplicate name or an unknown division.
// @Tags drivers
// @Accept json
// @Produce json
// @Param body body DriverRequest true "Driver"
// @Success 200 {object} tournament.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/drivers [post]
func (h *Handler) AddDriver(w http.ResponseWriter, r *http.Request) {
	var req DriverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res := h.session.Apply(func(m *tournament.Manager) tournament.Result {
		return m.AddDriver(req.Name, req.Division)
	})
	writeResult(w, res)
}

// UpdateDriver renames a driver or changes their division.
// @Summary Update driver
// @Description Renames a driver and/or moves them to another division. Logged races keep the old name.
// @Tags drivers
// @Accept json
// @Produce json
// @Param name path string true "Current driver name"
// @Param body body DriverRequest true "New name and division"
// @Success 200 {object} tournament.Result
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/drivers/{name} [put]
func (h *Handler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	var req DriverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res := h.session.Apply(func(m *tournament.Manager) tournament.Result {
		return m.UpdateDriver(name, req.Name, req.Division)
	})
	writeResult(w, res)
}

// DeleteDriver removes a driver.
// @Summary Delete driver
// @Description Removes a driver. Races they ran in stay in the log.
// @Tags drivers
// @Produce json
// @Param name path string true "Driver name"
// @Success 200 {object} tournament.Result
// @Router /api/drivers/{name} [delete]
func (h *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	res := h.session.Apply(func(m *tournament.Manager) tournament.Result {
		return m.DeleteDriver(name)
	})
	writeResult(w, res)
}

// GetDivisions lists the tournament's divisions.
// @Summary List divisions
// @Tags drivers
// @Produce json
// @Success 200 {array} string
// @Router /api/divisions [get]
func (h *Handler) GetDivisions(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "divisions", cache.TTLStatic, func(m *tournament.Manager) interface{} {
		return m.Divisions()
	})
}

// GetActiveDrivers lists drivers still racing in a division.
// @Summary Active drivers
// @Description Returns names of drivers in the division whose status is ACTIVE.
// @Tags standings
// @Produce json
// @Param division path string true "Division"
// @Success 200 {array} string
// @Router /api/active-drivers/{division} [get]
func (h *Handler) GetActiveDrivers(w http.ResponseWriter, r *http.Request) {
	division := pathParam(r, "division")
	h.serveCached(w, r, "active:"+division, cache.TTLStandings, func(m *tournament.Manager) interface{} {
		return m.ActiveDrivers(division)
	})
}
