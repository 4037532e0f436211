// Package export renders tournament results as CSV or Excel workbooks and
// reads driver rosters from uploaded workbooks.
package export

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

const (
	ContentTypeCSV   = "text/csv"
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	csvHeader   = []string{"Name", "Division", "Wins", "Losses", "Win Ratio", "Status"}
	excelHeader = []any{"Name", "Wins", "Losses", "Total Races", "Win Ratio", "Status"}
)

// FileName returns the download name for a results file, e.g.
// "Drag Race Results 2025-06-14.xlsx".
func FileName(title string, date time.Time, ext string) string {
	return fmt.Sprintf("%s Results %s.%s", title, date.Format("2006-01-02"), ext)
}

// FormatRatio renders a win ratio as a percentage with one decimal.
func FormatRatio(r float64) string {
	return strconv.FormatFloat(r*100, 'f', 1, 64) + "%"
}

// displayStatus folds every non-active status into ELIMINATED.
func displayStatus(s tournament.Status) string {
	if s == tournament.StatusActive {
		return string(tournament.StatusActive)
	}
	return string(tournament.StatusEliminated)
}

// WriteCSV writes one row per driver in the given order.
func WriteCSV(w io.Writer, drivers []tournament.Driver) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range drivers {
		err := cw.Write([]string{
			d.Name,
			d.Division,
			strconv.Itoa(d.Wins),
			strconv.Itoa(d.Losses),
			FormatRatio(d.WinRatio()),
			displayStatus(d.Status),
		})
		if err != nil {
			return fmt.Errorf("write csv row %q: %w", d.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// groupByDivision groups drivers by division in first-seen order.
func groupByDivision(drivers []tournament.Driver) ([]string, map[string][]tournament.Driver) {
	var order []string
	groups := make(map[string][]tournament.Driver)
	for _, d := range drivers {
		if _, ok := groups[d.Division]; !ok {
			order = append(order, d.Division)
		}
		groups[d.Division] = append(groups[d.Division], d)
	}
	return order, groups
}

// WriteExcel writes a workbook with one sheet per division that has drivers.
// Rows are sorted by wins, then win ratio, both descending.
func WriteExcel(w io.Writer, drivers []tournament.Driver) error {
	f := excelize.NewFile()
	defer f.Close()

	order, groups := groupByDivision(drivers)
	if len(order) == 0 {
		// A workbook needs at least one sheet.
		if err := f.SetSheetRow("Sheet1", "A1", &excelHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, division := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", division); err != nil {
				return fmt.Errorf("rename sheet %s: %w", division, err)
			}
		} else if _, err := f.NewSheet(division); err != nil {
			return fmt.Errorf("create sheet %s: %w", division, err)
		}

		if err := f.SetSheetRow(division, "A1", &excelHeader); err != nil {
			return fmt.Errorf("write header %s: %w", division, err)
		}

		rows := groups[division]
		slices.SortStableFunc(rows, func(a, b tournament.Driver) int {
			return cmp.Or(
				cmp.Compare(b.Wins, a.Wins),
				cmp.Compare(b.WinRatio(), a.WinRatio()),
			)
		})
		for j, d := range rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			row := []any{d.Name, d.Wins, d.Losses, d.TotalRaces(), FormatRatio(d.WinRatio()), displayStatus(d.Status)}
			if err := f.SetSheetRow(division, cell, &row); err != nil {
				return fmt.Errorf("write row %s/%s: %w", division, d.Name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
