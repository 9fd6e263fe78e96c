package scheduling

import "fmt"

// Interval is a half-open span [Start, Start+Duration) of one day, in minutes.
type Interval struct {
	Start    Clock
	Duration int
}

func (iv Interval) End() Clock {
	return iv.Start.Add(iv.Duration)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s-%s", iv.Start, iv.End())
}

// Overlaps reports whether [candStart, candStart+candDuration) and
// [existingStart, existingStart+existingDuration) share an instant.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(candStart Clock, candDuration int, existingStart Clock, existingDuration int) bool {
	candEnd := candStart.Add(candDuration)
	existingEnd := existingStart.Add(existingDuration)
	return candStart < existingEnd && candEnd > existingStart
}

// ExistsConflict reports whether the candidate overlaps any of existing.
// Every interval is checked; existing need not be sorted. The candidate must
// have a positive duration.
func ExistsConflict(candStart Clock, candDuration int, existing []Interval) (bool, error) {
	if candDuration <= 0 {
		return false, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidArgument, candDuration)
	}
	for _, iv := range existing {
		if iv.Duration < 0 {
			return false, fmt.Errorf("%w: booking at %s has negative duration %d", ErrInvalidArgument, iv.Start, iv.Duration)
		}
		if Overlaps(candStart, candDuration, iv.Start, iv.Duration) {
			return true, nil
		}
	}
	return false, nil
}
