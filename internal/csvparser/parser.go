// =============================================================================
// ONIX Export - CSV Parser Module
// =============================================================================
//
// This module reads a master catalogue exported as CSV, the alternative to
// reading the master sheet of a workbook. It returns the same header + rows
// Table as the workbook reader so the rest of the pipeline does not care
// where rows came from.
//
// FEATURES:
//   - Delimiter detection (",", ";", tab, "|") from the header line
//   - Encoding detection: UTF-8 (with or without BOM), otherwise
//     Windows-1252, the usual encoding of spreadsheet exports on Windows
//   - Explicit delimiter/encoding from CSVSettings
//   - Quoted fields, embedded newlines, ragged rows
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/types"
)

// Encodings understood by CSVSettings.Encoding.
const (
	EncodingAuto        = "auto"
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
	EncodingISO885915   = "iso-8859-15"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the CSV file at filePath into a Table named after the file.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filePath)
	}

	table, err := ParseBytes(data, settings)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filePath)
	}
	table.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return table, nil
}

// ParseBytes decodes and parses CSV content.
//
// PARSING PROCESS:
//  1. Decode to UTF-8 (settings.Encoding or detection)
//  2. Pick the delimiter (settings.Delimiter or detection on the first line)
//  3. Read records one by one; the first is the header row
//  4. Keep blank records, and put an empty row back for every empty line
//     the reader skipped, so row positions match the source lines
func ParseBytes(data []byte, settings config.CSVSettings) (*types.Table, error) {
	text, err := decode(data, settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	configureReader(reader, settings.Delimiter, text)

	table := &types.Table{}
	var (
		consumed int   // source lines fully read so far
		offset   int64 // byte offset of the end of the last record
		header   = true
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV records")
		}

		if header {
			table.Headers = cleanHeaders(rec)
			header = false
		} else {
			line, _ := reader.FieldPos(0)
			for gap := line - consumed - 1; gap > 0; gap-- {
				table.Rows = append(table.Rows, []string{})
			}
			table.Rows = append(table.Rows, rec)
		}

		end := reader.InputOffset()
		consumed += strings.Count(text[offset:end], "\n")
		offset = end
	}
	return table, nil
}

// =============================================================================
// READER CONFIGURATION
// =============================================================================

// configureReader applies the delimiter and the lenient parsing options
// spreadsheet exports need.
func configureReader(reader *csv.Reader, delimiter, text string) {
	switch strings.ToLower(delimiter) {
	case "\\t", "tab":
		reader.Comma = '\t'
	case "|", "pipe":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case ",", "comma":
		reader.Comma = ','
	case "", "auto":
		reader.Comma = DetectDelimiter(text)
	default:
		r, _ := utf8.DecodeRuneInString(delimiter)
		reader.Comma = r
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// DetectDelimiter picks the most frequent candidate delimiter outside
// quotes on the first line. Ties and lines without any candidate give ",".
func DetectDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}

	counts := map[rune]int{}
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ',' || r == ';' || r == '\t' || r == '|'):
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, r := range []rune{',', ';', '\t', '|'} {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	return best
}

// =============================================================================
// ENCODING
// =============================================================================

// decode converts data to a UTF-8 string. In auto mode valid UTF-8 is
// kept as is and anything else is decoded as Windows-1252.
func decode(data []byte, enc string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var decoder encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", EncodingAuto:
		if utf8.Valid(data) {
			return string(data), nil
		}
		decoder = charmap.Windows1252
	case EncodingUTF8, "utf8":
		if !utf8.Valid(data) {
			return "", errors.WithHint(
				errors.New("input is not valid UTF-8"),
				"set csv.encoding to windows-1252 or auto",
			)
		}
		return string(data), nil
	case EncodingWindows1252, "cp1252":
		decoder = charmap.Windows1252
	case EncodingISO88591, "latin1":
		decoder = charmap.ISO8859_1
	case EncodingISO885915, "latin9":
		decoder = charmap.ISO8859_15
	default:
		return "", errors.Newf("unsupported encoding %q", enc)
	}

	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder.NewDecoder()))
	if err != nil {
		return "", errors.Wrapf(err, "decoding %s", enc)
	}
	return string(out), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// =============================================================================
// KEY/VALUE FILES
// =============================================================================

// ParseKeyValues reads a two-column publisher configuration exported as
// CSV. It returns the same Table shape as the CONFIG sheet of a workbook.
func ParseKeyValues(filePath string, settings config.CSVSettings) (*types.Table, error) {
	table, err := Parse(filePath, settings)
	if err != nil {
		return nil, err
	}
	table.Name = config.DefaultConfigSheet
	return table, nil
}
