package scheduling

import "errors"

// ErrInvalidArgument is returned when a duration, window or clock value
// cannot describe a real interval of the day.
var ErrInvalidArgument = errors.New("invalid scheduling argument")

// ErrClosed is returned by a WindowProvider when the dentist takes no
// bookings on the requested date.
var ErrClosed = errors.New("no bookable window on this date")
