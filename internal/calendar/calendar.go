// Package calendar resolves civil dates in the single canonical timezone used
// to key every per-day record.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// DateLayout is the wire and storage format of a civil date
const DateLayout = "2006-01-02"

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time { return f() }

// Calendar maps instants onto civil dates in the canonical timezone and knows
// the weekly day on which no prediction is required.
type Calendar struct {
	loc      *time.Location
	resetDay time.Weekday
	clock    Clock
}

// New creates a Calendar. A nil clock means the system clock.
func New(loc *time.Location, resetDay time.Weekday, clock Clock) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{loc: loc, resetDay: resetDay, clock: clock}
}

// Location returns the canonical timezone
func (c *Calendar) Location() *time.Location { return c.loc }

// ResetDay returns the weekly no-prediction day
func (c *Calendar) ResetDay() time.Weekday { return c.resetDay }

// Now returns the current instant
func (c *Calendar) Now() time.Time { return c.clock.Now() }

// Today returns the current civil date in the canonical timezone
func (c *Calendar) Today() time.Time {
	return c.DateOf(c.clock.Now())
}

// DateOf returns the civil date of t in the canonical timezone
func (c *Calendar) DateOf(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return Date(y, m, d)
}

// IsResetDay reports whether the civil date falls on the weekly reset day
func (c *Calendar) IsResetDay(date time.Time) bool {
	return date.Weekday() == c.resetDay
}

// Date builds a civil date. Civil dates are midnight UTC carrying the
// canonical-zone year, month and day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate normalizes any instant to the civil date with the same Y-M-D
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD civil date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats a civil date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseWeekday parses an English weekday name such as "sunday" or "Sun"
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
