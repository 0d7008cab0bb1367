// =============================================================================
// ONIX Export - Workbook Reader
// =============================================================================
//
// This module opens catalogue workbooks (.xlsx) and returns named sheets as
// header + rows tables.
//
// CELL VALUES:
//   Sheets are read with raw cell values. Dates therefore arrive as Excel
//   serial numbers ("45366") and numbers keep their stored form rather than
//   the display format, which keeps 13-digit identifiers intact. The field
//   normalizers handle both shapes.
//
// SHEET LOOKUP:
//   An exact name match wins, otherwise the first sheet whose name matches
//   ignoring case and surrounding spaces ("config" finds "CONFIG").
//
// =============================================================================

package xlsxparser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/onix-export/internal/types"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the
// requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open catalogue workbook.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens the workbook at path. The caller must Close it.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	return &Workbook{f: f, path: path}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// HasSheet reports whether ReadSheet(name) would find a sheet.
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.resolve(name)
	return ok
}

// ReadSheet reads a sheet into a Table. The first row is the header row.
//
// RETURNS:
//   - ErrSheetNotFound (wrapped, with a hint listing the available sheets)
//     when no sheet matches name.
//   - An empty Table for a sheet with no rows.
func (w *Workbook) ReadSheet(name string) (*types.Table, error) {
	sheet, ok := w.resolve(name)
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrSheetNotFound, "%s: sheet %q", w.path, name),
			"available sheets: %s", strings.Join(w.SheetNames(), ", "),
		)
	}

	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}

	table := &types.Table{Name: sheet}
	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = cleanHeaders(rows[0])
	table.Rows = rows[1:]
	return table, nil
}

func (w *Workbook) resolve(name string) (string, bool) {
	sheets := w.f.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, s := range sheets {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return s, true
		}
	}
	return "", false
}

// =============================================================================
// HELPERS
// =============================================================================

// cleanHeaders trims header cells. Empty headers are kept as "" so column
// positions stay aligned with the data rows.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}
