package scheduling

import "fmt"

// GenerateSlots returns, in ascending order, every grid-aligned start time in
// window at which a booking of duration minutes finishes inside the window
// and does not overlap any of existing.
//
// The result depends only on the arguments; callers must pass a fresh
// snapshot of existing bookings for every request.
func GenerateSlots(window TimeWindow, duration int, existing []Interval) ([]Clock, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidArgument, duration)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	slots := make([]Clock, 0)
	if duration > window.Span() {
		return slots, nil
	}

	for _, t := range window.Candidates() {
		if t.Add(duration) > window.End {
			// candidates are ascending, nothing later can fit either
			break
		}
		conflict, err := ExistsConflict(t, duration, existing)
		if err != nil {
			return nil, err
		}
		if !conflict {
			slots = append(slots, t)
		}
	}
	return slots, nil
}
