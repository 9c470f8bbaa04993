package record

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	semverPattern       = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	iso8601Pattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d{3})?Z?)?$`)
)

// IsHierarchicalID reports whether value matches "<prefix>_<digits>".
func IsHierarchicalID(value, prefix string) bool {
	rest, ok := strings.CutPrefix(value, prefix+"_")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsCurrencyCode reports whether value is three uppercase letters. This does
// not check against a real ISO 4217 table; any 3-letter code passes.
func IsCurrencyCode(value string) bool {
	return currencyCodePattern.MatchString(value)
}

// IsCalendarDate reports whether value is a "YYYY-MM-DD" string that resolves
// to a calendar date. A day that overflows its month is normalized rather
// than rejected (2025-02-31 resolves to March 3rd), matching the lenient
// parsing the on-disk format has always had. Months outside 01-12 and days
// outside 01-31 do not qualify for that leniency.
func IsCalendarDate(value string) bool {
	_, ok := ParseCalendarDate(value)
	return ok
}

// ParseCalendarDate parses a "YYYY-MM-DD" string into a UTC midnight time.
// The month must be in 01-12 and the day in 01-31; a day that overflows its
// month normalizes forward.
func ParseCalendarDate(value string) (time.Time, bool) {
	if !calendarDatePattern.MatchString(value) {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(value[0:4])
	month, _ := strconv.Atoi(value[5:7])
	day, _ := strconv.Atoi(value[8:10])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// IsSemver reports whether value is a three-component version string.
func IsSemver(value string) bool {
	return semverPattern.MatchString(value)
}

// IsISO8601 reports whether value is a date or timestamp in the subset of
// ISO 8601 the document metadata uses: "YYYY-MM-DD" optionally followed by
// "THH:MM:SS", milliseconds, and a "Z" suffix. The date part follows the
// same day-overflow leniency as calendar dates; the time of day must be a
// real clock time.
func IsISO8601(value string) bool {
	if !iso8601Pattern.MatchString(value) {
		return false
	}
	if !IsCalendarDate(value[0:10]) {
		return false
	}
	if len(value) == 10 {
		return true
	}
	hour, _ := strconv.Atoi(value[11:13])
	minute, _ := strconv.Atoi(value[14:16])
	second, _ := strconv.Atoi(value[17:19])
	return hour <= 23 && minute <= 59 && second <= 59
}
