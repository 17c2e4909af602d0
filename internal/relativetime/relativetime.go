// Package relativetime renders compact elapsed-time tokens such as "5m",
// "2h", "16d", "1mo" and "3y".
package relativetime

import (
	"math"
	"strconv"
	"time"
)

const (
	minutesInDay           = 1440
	minutesInAlmostTwoDays = 2520
	minutesInMonth         = 43200
	minutesInTwoMonths     = 86400
)

// Format returns the distance between t and now.
func Format(t time.Time) string {
	return FormatAt(t, time.Now())
}

// FormatAt returns the distance between t and now as a compact token.
// Direction is ignored. Anything under two minutes renders as "1m".
func FormatAt(t, now time.Time) string {
	earlier, later := t, now
	if earlier.After(later) {
		earlier, later = later, earlier
	}

	seconds := int64(later.Sub(earlier) / time.Second)
	minutes := int(math.Round(float64(seconds) / 60))

	switch {
	case minutes < 2:
		return token(1, "m")
	case minutes < 45:
		return token(minutes, "m")
	case minutes < 90:
		return token(1, "h")
	case minutes < minutesInDay:
		return token(round(minutes, 60), "h")
	case minutes < minutesInAlmostTwoDays:
		return token(1, "d")
	case minutes < minutesInMonth:
		return token(round(minutes, minutesInDay), "d")
	case minutes < minutesInTwoMonths:
		return token(round(minutes, minutesInMonth), "mo")
	}

	months := monthsBetween(earlier, later)
	if months < 12 {
		return token(max(round(minutes, minutesInMonth), 1), "mo")
	}

	years, rest := months/12, months%12
	if rest >= 9 {
		// "almost N+1 years"
		years++
	}
	return token(years, "y")
}

// Date renders t as MM/DD/YYYY.
func Date(t time.Time) string {
	return t.Format("01/02/2006")
}

func token(n int, unit string) string {
	return strconv.Itoa(n) + unit
}

func round(minutes, per int) int {
	return int(math.Round(float64(minutes) / float64(per)))
}

// monthsBetween counts the full calendar months from earlier to later.
func monthsBetween(earlier, later time.Time) int {
	later = later.In(earlier.Location())
	months := (later.Year()-earlier.Year())*12 + int(later.Month()-earlier.Month())
	if months > 0 && earlier.AddDate(0, months, 0).After(later) {
		months--
	}
	return months
}
