package record

import (
	"regexp"
	"time"
)

// Granularity is the precision of a partial-ISO date.
type Granularity int

const (
	// Unknown marks an empty or malformed date.
	Unknown Granularity = iota
	// Year is "YYYY".
	Year
	// Month is "YYYY-MM".
	Month
	// Day is "YYYY-MM-DD".
	Day
)

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	dayPattern   = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

// GranularityOf classifies date.
func GranularityOf(date string) Granularity {
	switch {
	case dayPattern.MatchString(date):
		return Day
	case monthPattern.MatchString(date):
		return Month
	case yearPattern.MatchString(date):
		return Year
	default:
		return Unknown
	}
}

// SortKey normalises partial dates to day granularity so keys of mixed
// precision compare as strings. Missing parts become "00", which places a
// year-only date after every fully dated record of the same year in a
// descending sort. Any other non-empty value, such as a full timestamp, is
// its own key. Only a missing date maps to "" and sorts last.
func SortKey(date string) string {
	switch GranularityOf(date) {
	case Month:
		return date + "-00"
	case Year:
		return date + "-00-00"
	default:
		return date
	}
}

// Newer reports whether a sorts before b in a newest-first ordering.
func Newer(a, b string) bool {
	return SortKey(a) > SortKey(b)
}

// FormatDate renders date at its own precision ("2025", "Sep 2025",
// "1 Sep 2025"). Malformed input is returned unchanged.
func FormatDate(date string) string {
	switch GranularityOf(date) {
	case Day:
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return t.Format("2 Jan 2006")
		}
	case Month:
		if t, err := time.Parse("2006-01", date); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return date
}

// OnOrAfter reports whether date falls on or after t, compared at the date's
// own precision: a year-only date counts if its year is not before t's.
// RFC 3339 timestamps compare by instant. Other dates never match.
func OnOrAfter(date string, t time.Time) bool {
	switch GranularityOf(date) {
	case Day:
		return date >= t.Format("2006-01-02")
	case Month:
		return date >= t.Format("2006-01")
	case Year:
		return date >= t.Format("2006")
	default:
		ts, err := time.Parse(time.RFC3339, date)
		return err == nil && !ts.Before(t)
	}
}
