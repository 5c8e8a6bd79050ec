package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock maps wall-clock time onto business days at a fixed UTC offset.
// Storage instants are UTC; a business day starts at local midnight.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock for the given fixed offset east of UTC.
func New(offset time.Duration) *Clock {
	return &Clock{
		loc: time.FixedZone(formatOffset(offset), int(offset/time.Second)),
		now: time.Now,
	}
}

// WithNow returns a copy of the clock that reads the current time from fn.
func (c *Clock) WithNow(fn func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: fn}
}

// Location returns the fixed local zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant expressed in local time.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// LocalDayStart returns the UTC instant of local midnight of (today - offsetDays).
// A negative offsetDays walks forward, so LocalDayStart(-1) is the start of tomorrow.
func (c *Clock) LocalDayStart(offsetDays int) time.Time {
	return c.DayStart(c.Now().AddDate(0, 0, -offsetDays))
}

// DayStart returns the UTC instant of local midnight of the day containing t.
func (c *Clock) DayStart(t time.Time) time.Time {
	l := t.In(c.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc).UTC()
}

// MonthRange returns the UTC instants bounding the current local month as [start, end).
func (c *Clock) MonthRange() (time.Time, time.Time) {
	n := c.Now()
	start := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, c.loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// CalendarMonth returns the current local month as calendar dates [first, firstOfNext),
// encoded at UTC midnight for comparison against DATE columns.
func (c *Clock) CalendarMonth() (time.Time, time.Time) {
	n := c.Now()
	first := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// ParseOffset parses "+07:00", "-05:30", "+7" or "0" into a duration.
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || strings.EqualFold(s, "Z") {
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	if strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("invalid utc offset %q: more than one sign", s)
	}

	hh, mm, hasMinutes := strings.Cut(s, ":")
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid utc offset hours %q: %w", hh, err)
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(mm)
		if err != nil {
			return 0, fmt.Errorf("invalid utc offset minutes %q: %w", mm, err)
		}
	}
	if hours < 0 || hours > 14 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("utc offset out of range: %s", s)
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

func formatOffset(offset time.Duration) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%c%02d:%02d", sign, h, m)
}
