package scheduling

import (
	"fmt"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a Clock value.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day expressed as minutes since midnight
// in the clinic timezone.
type Clock int

// NewClock builds a Clock from hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: clock %q: %v", ErrInvalidArgument, s, err)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

// ClockOf returns the wall-clock part of t.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// Add returns c shifted by the given number of minutes.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// Valid reports whether c lies inside a single day. 24:00 is accepted as an
// end-of-day boundary.
func (c Clock) Valid() bool {
	return c >= 0 && c <= MinutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the instant at which c occurs on date in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(c) * time.Minute)
}
