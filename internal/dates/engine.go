// Package dates computes occasion calendar math for the gift scheduler.
//
// Occasions (birthdays, anniversaries) recur yearly on a month+day pair
// stored as a "YYYY-MM-DD" string. All arithmetic here works on literal
// calendar components, never on timezone-converted epochs.
package dates

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Engine computes next occurrences and day counts for stored occasion
// dates relative to the clock's notion of today.
type Engine struct {
	clock Clock
}

// NewEngine creates an engine. A nil clock falls back to the system clock.
func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{clock: clock}
}

// Today returns the current calendar date in the clock's location.
func (e *Engine) Today() LocalDate {
	return DateOf(e.clock.Now())
}

// ParseLocalDate parses a stored "YYYY-MM-DD" string into its literal
// components. An empty or malformed value falls back to today; stored
// dates missing from a record degrade to "due now" rather than failing
// the whole feed.
func (e *Engine) ParseLocalDate(s string) LocalDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return e.Today()
	}
	// Tolerate timestamps like "2024-06-15T00:00:00Z" by keeping the date part.
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return e.Today()
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return e.Today()
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return e.Today()
	}
	return LocalDate{Year: year, Month: time.Month(month), Day: day}
}

// NextOccurrence returns the nearest date on or after today sharing the
// stored date's month and day. An occasion falling on today is returned
// as today's occurrence, not pushed to next year. Feb 29 normalizes to
// Mar 1 in non-leap years, matching time.Date semantics.
func (e *Engine) NextOccurrence(s string) LocalDate {
	stored := e.ParseLocalDate(s)
	today := e.Today()

	candidate := LocalDate{Year: today.Year, Month: stored.Month, Day: stored.Day}
	candidate = DateOf(candidate.In(time.UTC)) // normalize Feb 29 and day overflow
	if candidate.Before(today) {
		candidate = LocalDate{Year: today.Year + 1, Month: stored.Month, Day: stored.Day}
		candidate = DateOf(candidate.In(time.UTC))
	}
	return candidate
}

// DaysUntil returns the whole-day count until the next occurrence,
// rounding up so a countdown never shows zero before the day arrives.
// It is 0 exactly when the occasion is today.
func (e *Engine) DaysUntil(s string) int {
	today := e.Today()
	next := e.NextOccurrence(s)
	// Component-constructed UTC instants keep every day exactly 24h,
	// so DST never skews the count.
	delta := next.In(time.UTC).Sub(today.In(time.UTC))
	return int(math.Ceil(delta.Hours() / 24))
}

// DaysUntilExact returns the nearest-day delta to a non-recurring target
// date such as a delivery date. Unlike DaysUntil it does not advance past
// dates to next year and may be negative. The round-vs-ceil asymmetry with
// DaysUntil is deliberate; callers display these two counts differently.
func (e *Engine) DaysUntilExact(s string) int {
	today := e.Today()
	target := e.ParseLocalDate(s)
	delta := target.In(time.UTC).Sub(today.In(time.UTC))
	return int(math.Round(delta.Hours() / 24))
}

// IsToday reports whether the occasion's next occurrence is today.
func (e *Engine) IsToday(s string) bool {
	return e.NextOccurrence(s).Equal(e.Today())
}

// IsWithinDays reports whether the occasion occurs within the next
// `days` days, inclusive of today and of the boundary day.
func (e *Engine) IsWithinDays(s string, days int) bool {
	until := e.DaysUntil(s)
	return until >= 0 && until <= days
}

// FormatOccasionDate renders the stored date in short form, e.g. "Jun 15".
func (e *Engine) FormatOccasionDate(s string) string {
	return e.ParseLocalDate(s).In(time.UTC).Format("Jan 2")
}

// FormatOccasionDateLong renders the stored date in long form,
// e.g. "June 15, 1990".
func (e *Engine) FormatOccasionDateLong(s string) string {
	return e.ParseLocalDate(s).In(time.UTC).Format("January 2, 2006")
}
