package handler

import (
	"bytes"
	"net/http"

	"github.com/Johane03/Drag-Race-Manager/internal/api/respond"
	"github.com/Johane03/Drag-Race-Manager/internal/export"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

func (h *Handler) drivers() []tournament.Driver {
	var drivers []tournament.Driver
	h.session.View(func(m *tournament.Manager) {
		drivers = m.Drivers()
	})
	return drivers
}

// ExportCSV downloads the results as CSV.
// @Summary Export results as CSV
// @Description One row per driver in registration order.
// @Tags export
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/export [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.drivers()); err != nil {
		h.logger.Error("CSV export failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to create CSV file")
		return
	}
	name := export.FileName(h.cfg.TournamentName, h.now(), "csv")
	respond.WriteAttachment(w, export.ContentTypeCSV, name, buf.Bytes())
}

// ExportExcel downloads the results as an Excel workbook.
// @Summary Export results as Excel
// @Description One sheet per division, sorted by wins then win ratio.
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 200 {object} tournament.Result
// @Router /api/export-excel [get]
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, h.drivers()); err != nil {
		h.logger.Error("Excel export failed", "error", err)
		writeResult(w, tournament.Result{Message: "Error creating Excel file: " + err.Error()})
		return
	}
	name := export.FileName(h.cfg.TournamentName, h.now(), "xlsx")
	respond.WriteAttachment(w, export.ContentTypeExcel, name, buf.Bytes())
}
