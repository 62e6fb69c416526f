// Package daterange turns loosely formatted user dates into inclusive query windows.
package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

var (
	// ErrUnknownFormat is returned for text matching none of the accepted shapes.
	ErrUnknownFormat = errors.New("unknown date format")

	// ErrMissingField is returned when either end of a range is blank.
	ErrMissingField = fmt.Errorf("%w: start and end dates are required", models.ErrValidation)
	// ErrInvalidFormat is returned when either end of a range cannot be parsed.
	ErrInvalidFormat = fmt.Errorf("%w: invalid date", models.ErrValidation)
	// ErrInvertedRange is returned when the end date precedes the start date.
	ErrInvertedRange = fmt.Errorf("%w: end date cannot be before the start date", models.ErrValidation)
)

type dateFormat struct {
	name    string
	pattern *regexp.Regexp
	layout  string
}

// Tried in order. The patterns pin the digit counts; time.Parse rejects impossible days.
var formats = []dateFormat{
	{name: "iso", pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), layout: "2006-01-02"},
	{name: "us", pattern: regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), layout: "01/02/2006"},
	{name: "dmy", pattern: regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), layout: "02-01-2006"},
}

// ParseFlexibleDate accepts YYYY-MM-DD, MM/DD/YYYY or DD-MM-YYYY.
func ParseFlexibleDate(text string) (models.CalendarDate, error) {
	value := strings.TrimSpace(text)
	for _, f := range formats {
		if !f.pattern.MatchString(value) {
			continue
		}
		t, err := time.Parse(f.layout, value)
		if err != nil {
			return models.CalendarDate{}, fmt.Errorf("%w: %q is not a calendar date (%s)", ErrUnknownFormat, value, f.name)
		}
		return models.DateOf(t), nil
	}
	return models.CalendarDate{}, fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

// Window is an inclusive time range. EndInclusive is the last instant of the end day.
type Window struct {
	Start        time.Time
	EndInclusive time.Time
}

// Contains reports whether t lies within the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.EndInclusive)
}

// StartDate returns the calendar date the window opens on.
func (w Window) StartDate() models.CalendarDate {
	return models.DateOf(w.Start)
}

// EndDate returns the calendar date the window closes on.
func (w Window) EndDate() models.CalendarDate {
	return models.DateOf(w.EndInclusive)
}

// Normalizer builds windows anchored in a single location so start and end
// boundaries are always compared in the same time zone.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer returns a Normalizer for loc. A nil loc means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Location returns the zone windows are anchored in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ToInclusiveWindow parses both ends and widens the end to the last instant of its day.
func (n *Normalizer) ToInclusiveWindow(startText, endText string) (Window, error) {
	if strings.TrimSpace(startText) == "" || strings.TrimSpace(endText) == "" {
		return Window{}, ErrMissingField
	}

	start, err := ParseFlexibleDate(startText)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start date: %w", ErrInvalidFormat, err)
	}
	end, err := ParseFlexibleDate(endText)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end date: %w", ErrInvalidFormat, err)
	}
	if end.Before(start) {
		return Window{}, ErrInvertedRange
	}

	return n.Window(start, end), nil
}

// Window builds the inclusive window for two already parsed dates.
func (n *Normalizer) Window(start, end models.CalendarDate) Window {
	return Window{
		Start:        start.In(n.loc),
		EndInclusive: EndOfDay(end, n.loc),
	}
}

// EndOfDay returns the last nanosecond of d in loc, so sub-second timestamps in
// the final second still fall inside the day.
func EndOfDay(d models.CalendarDate, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}
