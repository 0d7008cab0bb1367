// =============================================================================
// ONIX Export - Export Issues
// =============================================================================
//
// An Issue is one anomaly found while exporting a catalogue row: a row that
// was skipped, a field that was dropped or replaced by a default. Issues are
// data, not errors. They never stop an export and end up in the QA report.
//
// SEVERITY:
//   "error"   = the row was not exported
//   "warning" = the row was exported with a field dropped or defaulted
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue texts written to the QA report.
const (
	MsgMissingIdentifierOrTitle = "missing id13/title"
	msgInvalidCoverURL          = "invalid cover URL (skip): %s"
	msgMissingPrice             = "WARN: missing/invalid price -> UnpricedItemType=%s"
)

// Issue is one QA report line.
type Issue struct {
	// RowIndex is the 0-based position of the row among the data rows.
	RowIndex int

	// ISBN13 and Title are what was known about the row ("" if absent).
	ISBN13 string
	Title  string

	// Text is the description written to the report.
	Text string

	// Severity is SeverityError or SeverityWarning.
	Severity string
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return fmt.Sprintf("[%s] row %d %s %q: %s",
		strings.ToUpper(i.Severity), i.RowIndex, i.ISBN13, i.Title, i.Text)
}

// MissingIdentifierOrTitle is recorded for a row that was not exported.
func MissingIdentifierOrTitle(row int, isbn, title string) Issue {
	return Issue{RowIndex: row, ISBN13: isbn, Title: title, Text: MsgMissingIdentifierOrTitle, Severity: SeverityError}
}

// InvalidCoverURL is recorded when a cover link was dropped.
func InvalidCoverURL(row int, isbn, title, url string) Issue {
	return Issue{RowIndex: row, ISBN13: isbn, Title: title, Text: fmt.Sprintf(msgInvalidCoverURL, url), Severity: SeverityWarning}
}

// MissingPrice is recorded when UnpricedItemType replaced the price.
func MissingPrice(row int, isbn, title, unpricedCode string) Issue {
	return Issue{RowIndex: row, ISBN13: isbn, Title: title, Text: fmt.Sprintf(msgMissingPrice, unpricedCode), Severity: SeverityWarning}
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Collector accumulates issues in the order they are found. It is owned by
// a single export run and is not safe for concurrent use.
type Collector struct {
	issues []Issue
}

// Add appends issues.
func (c *Collector) Add(issues ...Issue) {
	c.issues = append(c.issues, issues...)
}

// Issues returns the collected issues in insertion order.
func (c *Collector) Issues() []Issue {
	return c.issues
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	return len(c.issues)
}

// Counts returns the number of errors and warnings.
func (c *Collector) Counts() (errs, warnings int) {
	for _, i := range c.issues {
		if i.Severity == SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
