// =============================================================================
// ONIX Export - Field Normalizers
// =============================================================================
//
// Pure, total conversions from raw catalogue cells to canonical values.
// None of these functions fail: they return ("", false) or a zero value when
// the input cannot be interpreted. Whether an absent value is silently
// dropped or reported is decided by the caller (the record exporter).
//
// FILES:
//   text.go         : cleaning, code splitting, accent folding, booleans
//   identifier.go   : 13-digit product identifiers
//   date.go         : publication dates -> YYYYMMDD
//   numbers.go      : measures, page counts, prices
//   contributors.go : contributor strings -> ordered entries
//   availability.go : availability labels -> availability codes
//   url.go          : cover image URLs
//
// =============================================================================

package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// TEXT CLEANING
// =============================================================================

// Text trims a raw cell. Empty cells and the literal "nan" left behind by
// spreadsheet exports are treated as absent.
func Text(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}
	return s, true
}

// FirstText returns the first candidate that cleans to a non-empty value.
func FirstText(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if s, ok := Text(c); ok {
			return s, true
		}
	}
	return "", false
}

var codeSeparator = regexp.MustCompile(`[;,]\s*`)

// Codes splits a list of codes separated by ";" or ",".
//
// EXAMPLE:
//
//	"B206; B221,A103" -> ["B206", "B221", "A103"]
func Codes(raw string) []string {
	s, ok := Text(raw)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range codeSeparator.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// ACCENT FOLDING
// =============================================================================

// Fold lowercases s and strips combining marks so that "Épuisé" and
// "epuise" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// =============================================================================
// BOOLEANS
// =============================================================================

var truthy = map[string]struct{}{
	"1": {}, "true": {}, "yes": {}, "y": {}, "vrai": {}, "oui": {}, "x": {},
}

// Bool interprets an activation flag. Any finite nonzero number is true, text is
// matched case-insensitively against the truthy set, everything else is
// false.
func Bool(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return false
	}
	if _, ok := truthy[s]; ok {
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return false
}
