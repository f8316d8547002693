package core

import "time"

// Calendar pins date arithmetic to one time zone. Domain dates (Date) are
// civil dates stored at UTC midnight; instants such as the evaluation time
// are converted to a civil date in the calendar's zone before comparing.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc. A nil location means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the calendar's zone.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOf returns the civil date of instant t in the calendar's zone.
func (c Calendar) DateOf(t time.Time) Date {
	y, m, d := t.In(c.Location()).Date()
	return NewDate(y, int(m), d)
}

// StartOfDay returns midnight of d in the calendar's zone, as an instant.
func (c Calendar) StartOfDay(d Date) time.Time {
	return time.Date(d.Year(), d.Time.Month(), d.Day(), 0, 0, 0, 0, c.Location())
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time).Hours() / 24)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastDayOfMonth reports whether d is the final day of its month.
func (d Date) IsLastDayOfMonth() bool {
	return d.Day() == LastDayOfMonth(d.Year(), d.Time.Month())
}

// SameMonth reports whether both dates fall in the same (month, year).
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

// SameDay reports whether both dates are the same civil date.
func (d Date) SameDay(other Date) bool {
	return d.SameMonth(other) && d.Day() == other.Day()
}

// AddDays shifts d by n days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// ClampedDate builds a date, clamping day to the length of the month.
func ClampedDate(year int, month time.Month, day int) Date {
	// normalise month overflow first
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := LastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// AddMonths shifts d by n months, clamping to the end of shorter months.
func (d Date) AddMonths(n int) Date {
	return ClampedDate(d.Year(), d.Time.Month()+time.Month(n), d.Day())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}
