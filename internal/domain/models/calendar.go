package models

import (
	"fmt"
	"time"
)

// CalendarDate is a timezone-free year/month/day triple.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) CalendarDate {
	if t.IsZero() {
		return CalendarDate{}
	}
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date is unset.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// In returns midnight of the date in loc.
func (d CalendarDate) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d falls on an earlier day than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.In(time.UTC).Before(other.In(time.UTC))
}

// ISO renders YYYY-MM-DD, or "" for the zero date.
func (d CalendarDate) ISO() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// US renders MM/DD/YYYY, or "" for the zero date.
func (d CalendarDate) US() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", int(d.Month), d.Day, d.Year)
}

func (d CalendarDate) String() string {
	return d.ISO()
}
