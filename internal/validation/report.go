package validation

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ReportHeader is the first line of every QA report.
var ReportHeader = []string{"row_index", "isbn13", "title", "issue"}

// WriteReport writes issues as CSV to w, header first, in the given order.
// An empty issue list still produces the header line.
func WriteReport(w io.Writer, issues []Issue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return errors.Wrap(err, "writing report header")
	}
	for _, i := range issues {
		rec := []string{strconv.Itoa(i.RowIndex), i.ISBN13, i.Title, i.Text}
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "writing report row %d", i.RowIndex)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing report")
}

// WriteReportFile writes the QA report to path, creating the parent
// directory when needed.
func WriteReportFile(path string, issues []Issue) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating report directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating report %s", path)
	}

	if err := WriteReport(f, issues); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing report %s", path)
}
