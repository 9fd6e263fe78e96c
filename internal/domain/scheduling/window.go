package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clinic defaults: bookings start and finish between 08:00 and 18:00 on a
// 15 minute grid.
const (
	DefaultWindowStart = Clock(8 * 60)
	DefaultWindowEnd   = Clock(18 * 60)
	DefaultStepMinutes = 15
)

// TimeWindow is the span of a day inside which bookings may start and must
// finish, together with the grid step candidate start times are aligned to.
type TimeWindow struct {
	Start Clock
	End   Clock
	Step  int
}

// DefaultWindow returns the clinic-wide 08:00-18:00 window with a 15 minute grid.
func DefaultWindow() TimeWindow {
	return TimeWindow{Start: DefaultWindowStart, End: DefaultWindowEnd, Step: DefaultStepMinutes}
}

// NewTimeWindow parses "HH:MM" bounds and validates the result.
func NewTimeWindow(start, end string, step int) (TimeWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, err
	}
	w := TimeWindow{Start: s, End: e, Step: step}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

func (w TimeWindow) Validate() error {
	if w.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidArgument, w.Step)
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return fmt.Errorf("%w: window %s-%s outside a day", ErrInvalidArgument, w.Start, w.End)
	}
	if w.Start >= w.End {
		return fmt.Errorf("%w: window start %s not before end %s", ErrInvalidArgument, w.Start, w.End)
	}
	return nil
}

// Span is the length of the window in minutes.
func (w TimeWindow) Span() int {
	return int(w.End - w.Start)
}

// Contains reports whether an interval starts at or after the window start
// and finishes no later than the window end.
func (w TimeWindow) Contains(iv Interval) bool {
	return iv.Start >= w.Start && iv.End() <= w.End
}

// Candidates returns every grid-aligned time in [Start, End).
func (w TimeWindow) Candidates() []Clock {
	out := make([]Clock, 0, (w.Span()+w.Step-1)/w.Step)
	for t := w.Start; t < w.End; t = t.Add(w.Step) {
		out = append(out, t)
	}
	return out
}

// WindowProvider resolves the bookable window for a dentist on a date. It is
// the hook for per-dentist working hours; the fixed provider ignores both
// arguments.
type WindowProvider interface {
	WindowFor(ctx context.Context, dentistID uuid.UUID, date time.Time) (TimeWindow, error)
}

// FixedWindow serves the same window for every dentist and date.
type FixedWindow TimeWindow

func (f FixedWindow) WindowFor(_ context.Context, _ uuid.UUID, _ time.Time) (TimeWindow, error) {
	return TimeWindow(f), nil
}
