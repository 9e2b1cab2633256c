package dates

import (
	"fmt"
	"time"
)

// LocalDate is a calendar date with no time-of-day component and no
// timezone. Stored occasion dates ("YYYY-MM-DD") are parsed into their
// literal year/month/day digits; they must never round-trip through a
// UTC epoch, or a birthday stored as "1990-06-15" renders as June 14
// for viewers west of UTC.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// Equal reports whether both dates name the same calendar day.
func (d LocalDate) Equal(other LocalDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Before orders dates by (year, month, day) only.
func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d LocalDate) After(other LocalDate) bool {
	return other.Before(d)
}

// In returns the midnight instant of d in the given location.
func (d LocalDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String renders the date back in storage form.
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
