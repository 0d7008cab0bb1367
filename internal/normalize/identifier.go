package normalize

import (
	"strconv"
	"strings"
)

// Identifier normalizes a product identifier to its 13 digits.
//
// Spreadsheets regularly turn ISBNs into floats, so "9.782123456789E+12"
// and "9782123456789.0" are both folded back to "9782123456789" before
// non-digit characters are stripped. Anything that does not end up as
// exactly 13 digits is absent.
func Identifier(raw string) (string, bool) {
	s, ok := Text(raw)
	if !ok {
		return "", false
	}

	if strings.Contains(strings.ToLower(s), "e+") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			s = strconv.FormatFloat(f, 'f', 0, 64)
		}
	}

	s = strings.TrimSuffix(s, ".0")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) != 13 {
		return "", false
	}
	return digits, true
}
