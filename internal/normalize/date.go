package normalize

import (
	"regexp"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayout is the ONIX "YYYYMMDD" date format.
const dateLayout = "20060102"

// Excel stores dates as days since 1899-12-30. Values outside this range
// are not treated as serial dates (10000 is 1927-05-18, 2958465 is
// 9999-12-31).
const (
	minExcelSerial = 10000
	maxExcelSerial = 2958465
)

// strictLayouts are tried in order before any lenient parsing.
var strictLayouts = []string{
	"2006-01-02", // YYYY-MM-DD
	"02/01/2006", // DD/MM/YYYY
	"2006/01/02", // YYYY/MM/DD
	"02-01-2006", // DD-MM-YYYY
	"20060102",   // YYYYMMDD
}

// lenientLayouts are the day-first last resort.
var lenientLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2/1/06",
	"2006-1-2",
	"2006-01",
	"01/2006",
	"1/2006",
	"2006",
}

// Date normalizes a publication date to "YYYYMMDD".
//
// ACCEPTED INPUTS:
//   - Excel serial numbers (raw cell values such as "45306" or "45306.5")
//   - YYYY-MM-DD, DD/MM/YYYY, YYYY/MM/DD, DD-MM-YYYY, YYYYMMDD
//   - day-first variants ("2/1/2024", "02.01.2024"), timestamps
//   - month names in French or English ("15 mars 2024", "March 2024")
//   - a month or a year alone, resolved to its first day
func Date(raw string) (string, bool) {
	s, ok := Text(raw)
	if !ok {
		return "", false
	}

	if t, ok := excelSerial(s); ok {
		return t.Format(dateLayout), true
	}

	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}

	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}

	if t, ok := parseMonthName(s); ok {
		return t.Format(dateLayout), true
	}

	return "", false
}

func excelSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < minExcelSerial || f > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var months = map[string]time.Month{
	"janvier": time.January, "january": time.January, "jan": time.January,
	"fevrier": time.February, "february": time.February, "fev": time.February, "feb": time.February,
	"mars": time.March, "march": time.March, "mar": time.March,
	"avril": time.April, "april": time.April, "avr": time.April, "apr": time.April,
	"mai": time.May, "may": time.May,
	"juin": time.June, "june": time.June, "jun": time.June,
	"juillet": time.July, "july": time.July, "juil": time.July, "jul": time.July,
	"aout": time.August, "august": time.August, "aug": time.August,
	"septembre": time.September, "september": time.September, "sept": time.September, "sep": time.September,
	"octobre": time.October, "october": time.October, "oct": time.October,
	"novembre": time.November, "november": time.November, "nov": time.November,
	"decembre": time.December, "december": time.December, "dec": time.December,
}

// "15 mars 2024", "1er janvier 2024", "mars 2024"
var monthNamePattern = regexp.MustCompile(`^(?:(\d{1,2})(?:er)?\s+)?([a-z]+)\.?\s+(\d{4})$`)

func parseMonthName(s string) (time.Time, bool) {
	m := monthNamePattern.FindStringSubmatch(Fold(s))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := months[m[2]]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	day := 1
	if m[1] != "" {
		day, _ = strconv.Atoi(m[1])
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31 February into March; reject instead.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
