package export

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// DivisionError reports a roster row whose division is not part of the
// tournament.
type DivisionError struct {
	Division string
	Driver   string
	Sheet    string
	Valid    []string
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("Invalid division %q for driver %q in sheet %q. Valid divisions: %s",
		e.Division, e.Driver, e.Sheet, strings.Join(e.Valid, ", "))
}

// ParseRoster reads drivers from every sheet of an Excel workbook.
//
// A sheet with a "Name" header contributes one driver per non-empty row. The
// division comes from a "Division" column when present, otherwise from the
// sheet name; either way it must be one of divisions. A sheet without a
// "Name" header is read only when its name is a division, taking driver names
// from the first column. Other sheets are ignored.
//
// The result has every driver at a zero record and no races, ready for
// Manager.Import.
func ParseRoster(r io.Reader, divisions []string) (tournament.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return tournament.Snapshot{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	snap := tournament.Snapshot{
		Drivers: make(map[string]tournament.DriverSnapshot),
		Races:   []tournament.RaceSnapshot{},
	}
	add := func(name, division string) {
		if _, ok := snap.Drivers[name]; !ok {
			snap.Order = append(snap.Order, name)
		}
		snap.Drivers[name] = tournament.DriverSnapshot{
			Name:     name,
			Division: division,
			Races:    []int{},
			Status:   tournament.StatusActive,
		}
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return tournament.Snapshot{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := rows[0]
		sheetDivision := strings.ToUpper(strings.TrimSpace(sheet))
		nameCol := slices.Index(header, "Name")

		if nameCol < 0 {
			if !slices.Contains(divisions, sheetDivision) {
				continue
			}
			for _, row := range rows[1:] {
				if name := rosterName(cell(row, 0)); name != "" {
					add(name, sheetDivision)
				}
			}
			continue
		}

		divCol := slices.Index(header, "Division")
		for _, row := range rows[1:] {
			name := rosterName(cell(row, nameCol))
			if name == "" {
				continue
			}
			division := sheetDivision
			if divCol >= 0 {
				division = strings.ToUpper(strings.TrimSpace(cell(row, divCol)))
			}
			if !slices.Contains(divisions, division) {
				return tournament.Snapshot{}, &DivisionError{
					Division: division, Driver: name, Sheet: sheet, Valid: divisions,
				}
			}
			add(name, division)
		}
	}
	return snap, nil
}

// rosterName trims a name cell; blanks and spreadsheet "nan" markers are
// treated as empty rows.
func rosterName(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// cell returns row[i], or "" when the row is shorter. GetRows drops trailing
// empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
