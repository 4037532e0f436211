package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Johane03/Drag-Race-Manager/internal/api/respond"
	"github.com/Johane03/Drag-Race-Manager/internal/export"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

const storeTimeout = 5 * time.Second

// SaveTournament returns the full tournament snapshot and, when a database is
// configured, stores it. The stored row's ID is sent in X-Snapshot-ID.
// @Summary Save tournament
// @Description Returns the tournament snapshot (drivers, races, race_counter). Also persists it when a database is configured.
// @Tags snapshot
// @Produce json
// @Success 200 {object} tournament.Snapshot
// @Router /api/save [post]
func (h *Handler) SaveTournament(w http.ResponseWriter, r *http.Request) {
	snap, _ := h.session.Snapshot()

	if h.snapshots != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		rec, err := h.snapshots.Save(ctx, store.LabelManual, snap)
		cancel()
		if err != nil {
			h.logger.Warn("Snapshot not persisted", "error", err)
		} else {
			w.Header().Set("X-Snapshot-ID", rec.ID.String())
			h.logger.Info("Snapshot saved", "id", rec.ID, "drivers", rec.Drivers)
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, snap)
}

// LoadTournament replaces the tournament with a posted snapshot.
// @Summary Load tournament
// @Description Replaces all drivers and races with the posted snapshot. Missing driver fields default to a zero record.
// @Tags snapshot
// @Accept json
// @Produce json
// @Param body body tournament.Snapshot true "Snapshot"
// @Success 200 {object} tournament.Result
// @Router /api/load [post]
func (h *Handler) LoadTournament(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeResult(w, tournament.Result{Message: err.Error()})
		return
	}
	snap, err := tournament.ParseSnapshot(body)
	if err != nil {
		writeResult(w, tournament.Result{Message: err.Error()})
		return
	}
	if err := h.replace(snap); err != nil {
		writeResult(w, tournament.Result{Message: err.Error()})
		return
	}
	h.logger.Info("Tournament loaded", "drivers", len(snap.Drivers), "races", len(snap.Races))
	writeResult(w, tournament.Result{Success: true, Message: "Tournament loaded successfully"})
}

// LoadExcel replaces the tournament with drivers read from an uploaded
// workbook.
// @Summary Load roster from Excel
// @Description Reads drivers from every sheet of an uploaded workbook and replaces the tournament with them at zero records.
// @Tags snapshot
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook"
// @Success 200 {object} tournament.Result
// @Router /api/load-excel [post]
func (h *Handler) LoadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	// Parts with an empty filename are plain form values, so a missing
	// selection also lands here.
	file, header, err := r.FormFile("file")
	if err != nil {
		writeResult(w, tournament.Result{Message: "No file uploaded"})
		return
	}
	defer file.Close()

	var divisions []string
	h.session.View(func(m *tournament.Manager) {
		divisions = m.Divisions()
	})

	snap, err := export.ParseRoster(file, divisions)
	var divErr *export.DivisionError
	switch {
	case errors.As(err, &divErr):
		writeResult(w, tournament.Result{Message: divErr.Error()})
		return
	case err != nil:
		writeResult(w, tournament.Result{Message: fmt.Sprintf(
			"Error reading Excel file: %s. Please ensure it's a valid Excel file with columns: Name, Division", err)})
		return
	}
	if err := h.replace(snap); err != nil {
		writeResult(w, tournament.Result{Message: err.Error()})
		return
	}
	h.logger.Info("Roster loaded", "file", header.Filename, "drivers", len(snap.Drivers))
	writeResult(w, tournament.Result{
		Success: true,
		Message: fmt.Sprintf("Successfully loaded %d drivers from Excel file", len(snap.Drivers)),
	})
}

// ListSnapshots lists stored snapshots, newest first.
// @Summary List stored snapshots
// @Tags snapshot
// @Produce json
// @Param limit query int false "Max records (default 20)"
// @Success 200 {array} store.Record
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/snapshots [get]
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "PERSISTENCE_DISABLED", "No database is configured")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := h.snapshots.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("List snapshots failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Failed to list snapshots")
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	respond.WriteJSONObject(w, http.StatusOK, records)
}

// replace swaps the tournament state for snap.
func (h *Handler) replace(snap tournament.Snapshot) error {
	var err error
	h.session.Update(func(m *tournament.Manager) bool {
		err = m.Import(snap)
		return err == nil
	})
	return err
}
