// Package calendar provides the fixed registration window for the
// Ramadan 2026 volunteer schedule: the set of eligible sign-up dates,
// the special Eid entry, the per-day capacity, and an approximate
// Hijri label for display.
package calendar

import (
	"fmt"
	"time"
)

// Ramadan 2026: February 19 - March 20. Eid al-Fitr follows on March 21.
const (
	RamadanStart = "2026-02-19"
	RamadanEnd   = "2026-03-20"

	// DayCapacity is the maximum number of volunteers per regular day.
	// The Eid entry has no ceiling.
	DayCapacity = 3

	// dateLayout is the wire format for all dates.
	dateLayout = "2006-01-02"

	// eidSentinel identifies the Eid-day bucket. It is not a calendar
	// date and can never collide with one.
	eidSentinel = "EID"

	// Ramadan 2026 starts on 1 Ramadan 1447.
	hijriYear = 1447

	// The day immediately before the window is the last day of Shaban.
	shabanLastDay = 30
)

// EidSentinel returns the pseudo-date identifying the Eid registration bucket.
func EidSentinel() string {
	return eidSentinel
}

// EligibleDates returns every date of the registration window in ascending
// order, formatted YYYY-MM-DD.
func EligibleDates() []string {
	start, _ := time.Parse(dateLayout, RamadanStart)
	end, _ := time.Parse(dateLayout, RamadanEnd)

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// IsEligible reports whether date is a valid registration target: a day
// within the window, or the Eid sentinel.
func IsEligible(date string) bool {
	if date == eidSentinel {
		return true
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	start, _ := time.Parse(dateLayout, RamadanStart)
	end, _ := time.Parse(dateLayout, RamadanEnd)
	return !d.Before(start) && !d.After(end)
}

// HijriDate is a display-only approximation of a lunar calendar date.
type HijriDate struct {
	Day   int    `json:"day"`
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// HijriLabel converts a Gregorian date within the registration window to its
// approximate Hijri equivalent by linear offset from the window start
// (= 1 Ramadan 1447). The single day before the window maps to 30 Shaban.
//
// This is not a Hijri calendar conversion; it only holds for the fixed
// window and must be treated as a display label.
func HijriLabel(date string, loc Locale) (HijriDate, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return HijriDate{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	start, _ := time.Parse(dateLayout, RamadanStart)
	end, _ := time.Parse(dateLayout, RamadanEnd)

	offset := int(d.Sub(start).Hours() / 24)
	switch {
	case offset == -1:
		return HijriDate{Day: shabanLastDay, Month: loc.shabanName(), Year: hijriYear}, nil
	case offset >= 0 && !d.After(end):
		return HijriDate{Day: offset + 1, Month: loc.ramadanName(), Year: hijriYear}, nil
	default:
		return HijriDate{}, fmt.Errorf("date %q outside the supported window", date)
	}
}
