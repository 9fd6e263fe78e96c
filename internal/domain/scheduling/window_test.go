package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWindow(t *testing.T) {
	w := DefaultWindow()
	require.NoError(t, w.Validate())
	assert.Equal(t, 600, w.Span())
	assert.Len(t, w.Candidates(), 40)
}

func TestNewTimeWindow_Invalid(t *testing.T) {
	_, err := NewTimeWindow("8am", "18:00", 15)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewTimeWindow("18:00", "18:00", 15)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewTimeWindow("08:00", "18:00", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTimeWindow_Contains(t *testing.T) {
	w := DefaultWindow()
	assert.True(t, w.Contains(Interval{Start: NewClock(8, 0), Duration: 30}))
	assert.True(t, w.Contains(Interval{Start: NewClock(17, 30), Duration: 30}))
	assert.False(t, w.Contains(Interval{Start: NewClock(17, 45), Duration: 30}))
	assert.False(t, w.Contains(Interval{Start: NewClock(7, 45), Duration: 30}))
}

func TestFixedWindow(t *testing.T) {
	got, err := FixedWindow(DefaultWindow()).WindowFor(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow(), got)
}

func TestClock(t *testing.T) {
	c, err := ParseClock("09:45")
	require.NoError(t, err)
	assert.Equal(t, Clock(585), c)
	assert.Equal(t, "09:45", c.String())

	loc := time.FixedZone("clinic", 8*3600)
	at := c.On(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 45, 0, 0, loc), at)
	assert.Equal(t, c, ClockOf(at))
}
