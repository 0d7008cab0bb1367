// =============================================================================
// ONIX Export - Shared Types
// =============================================================================
//
// Types shared between the readers (xlsx, csv), the column mapper and the
// record exporter. They carry no behaviour of their own.
//
// =============================================================================

package types

// Table is a sheet read from a workbook or a CSV file: one header row and
// the data rows below it, cells as raw trimmed-or-not strings.
type Table struct {
	// Name is the sheet name (or the file name for CSV input).
	Name string

	// Headers holds the header row as found in the source.
	Headers []string

	// Rows holds the data rows. Rows may be shorter than Headers.
	Rows [][]string
}

// Cell returns the value at (row, col) or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if t == nil || row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// CatalogueRow is one catalogue entry resolved against the column mapping.
// Every field is the raw cell text; "" means the column is absent or empty.
type CatalogueRow struct {
	// Index is the 0-based position of the row among the data rows.
	Index int

	Identifier string
	Title      string
	Subtitle   string

	// Contributors is the primary contributor string. When empty the
	// per-role fields below are aggregated in order.
	Contributors string
	Authors      string
	Editors      string
	Translators  string
	Compilers    string

	ProductForm        string
	ProductFormDetails string

	Width     string
	Height    string
	Thickness string
	Weight    string
	Pages     string

	PublicationDate string

	Price         string
	PriceFallback string

	Availability      string
	AvailabilityLabel string

	Thema string
	CLIL  string
	BISAC string

	CoverURL         string
	ShortDescription string
	LongDescription  string
	TableOfContents  string

	ActiveOnix string
	ActiveSite string
}

// Contributor is one parsed contributor entry.
type Contributor struct {
	Sequence int
	Roles    []string
	Name     string
}
