package usecase

import (
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"
)

const dateLayout = "2006-01-02"

// Calendar carries the clinic timezone and clock. All dates are calendar
// days in Location.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

// ParseDate parses "YYYY-MM-DD" as midnight in the clinic timezone
func (c Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, c.location())
}

// Today returns midnight of the current clinic day
func (c Calendar) Today() time.Time {
	now := c.now().In(c.location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location())
}

// NowClock returns the current wall clock in the clinic timezone
func (c Calendar) NowClock() scheduling.Clock {
	return scheduling.ClockOf(c.now().In(c.location()))
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
