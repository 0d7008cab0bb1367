package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// DECIMALS
// =============================================================================

// Decimal parses a number written with either a dot or a comma as decimal
// separator. Spaces (including non-breaking spaces) are dropped. When both
// separators appear the last one is the decimal separator.
//
// EXAMPLES:
//
//	"12,5"       -> 12.5
//	"1 234,50"   -> 1234.5
//	"1,234.50"   -> 1234.5
func Decimal(raw string) (float64, bool) {
	s, ok := Text(raw)
	if !ok {
		return 0, false
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatDecimal prints v without trailing zeros: 15 -> "15", 15.50 -> "15.5".
func FormatDecimal(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// MEASURES AND EXTENT
// =============================================================================

// Measure returns a physical dimension formatted for ONIX. Zero, negative
// and unparseable values mean "unknown" and are absent.
func Measure(raw string) (string, bool) {
	v, ok := Decimal(raw)
	if !ok || v <= 0 {
		return "", false
	}
	return FormatDecimal(v), true
}

// Pages returns a positive page count. Fractional values are truncated.
func Pages(raw string) (int, bool) {
	v, ok := Decimal(raw)
	if !ok {
		return 0, false
	}
	n := int(v)
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// =============================================================================
// PRICES
// =============================================================================

var currencySuffix = regexp.MustCompile(`(?i)\s*(EUR|EUROS?|TTC)\s*$`)

// Price parses a retail price, rounded to cents. Currency symbols and a
// trailing currency word are ignored. Values that round to zero or less are
// absent.
func Price(raw string) (float64, bool) {
	s, ok := Text(raw)
	if !ok {
		return 0, false
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£':
			return -1
		}
		return r
	}, s)
	s = currencySuffix.ReplaceAllString(s, "")

	v, ok := Decimal(s)
	if !ok {
		return 0, false
	}
	v = math.Round(v*100) / 100
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// FormatPrice rounds to cents and drops trailing zeros: 12.5 -> "12.5",
// 20.00 -> "20", 9.999 -> "10".
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
