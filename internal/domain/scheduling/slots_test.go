package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clocks(t *testing.T, values ...string) []Clock {
	t.Helper()
	out := make([]Clock, 0, len(values))
	for _, v := range values {
		c, err := ParseClock(v)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestGenerateSlots_EmptyDay(t *testing.T) {
	slots, err := GenerateSlots(DefaultWindow(), 30, nil)
	require.NoError(t, err)

	require.Len(t, slots, 39)
	assert.Equal(t, "08:00", slots[0].String())
	assert.Equal(t, "17:30", slots[len(slots)-1].String())
	assert.NotContains(t, slots, NewClock(17, 45))
}

func TestGenerateSlots_FifteenMinuteServiceUsesWholeGrid(t *testing.T) {
	slots, err := GenerateSlots(DefaultWindow(), 15, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 40)
	assert.Equal(t, "17:45", slots[39].String())
}

func TestGenerateSlots_ExistingBookingBlocksOverlappingStarts(t *testing.T) {
	existing := []Interval{{Start: NewClock(10, 0), Duration: 30}}

	slots, err := GenerateSlots(DefaultWindow(), 30, existing)
	require.NoError(t, err)

	assert.Len(t, slots, 36)
	for _, blocked := range clocks(t, "09:45", "10:00", "10:15") {
		assert.NotContains(t, slots, blocked)
	}
	for _, free := range clocks(t, "09:30", "10:30") {
		assert.Contains(t, slots, free)
	}
}

func TestGenerateSlots_DurationLongerThanWindow(t *testing.T) {
	slots, err := GenerateSlots(DefaultWindow(), 615, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = GenerateSlots(DefaultWindow(), 601, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// A 600-minute service in the 08:00-18:00 window still fits at opening because
// it finishes exactly at closing. This deliberately returns one slot rather than
// none; only longer services yield an empty list.
func TestGenerateSlots_DurationEqualToWindowFitsOnlyAtOpening(t *testing.T) {
	slots, err := GenerateSlots(DefaultWindow(), 600, nil)
	require.NoError(t, err)
	assert.Equal(t, clocks(t, "08:00"), slots)

	slots, err = GenerateSlots(DefaultWindow(), 600, []Interval{{Start: NewClock(17, 45), Duration: 15}})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_UnsortedBookings(t *testing.T) {
	existing := []Interval{
		{Start: NewClock(16, 0), Duration: 120},
		{Start: NewClock(8, 0), Duration: 60},
		{Start: NewClock(12, 0), Duration: 60},
	}

	slots, err := GenerateSlots(DefaultWindow(), 60, existing)
	require.NoError(t, err)

	want := clocks(t,
		"09:00", "09:15", "09:30", "09:45", "10:00", "10:15", "10:30", "10:45", "11:00",
		"13:00", "13:15", "13:30", "13:45", "14:00", "14:15", "14:30", "14:45", "15:00",
	)
	assert.Equal(t, want, slots)
}

func TestGenerateSlots_OffGridBookings(t *testing.T) {
	// 10:05-10:25 blocks every 30 minute start between 09:45 and 10:15
	existing := []Interval{{Start: NewClock(10, 5), Duration: 20}}

	slots, err := GenerateSlots(DefaultWindow(), 30, existing)
	require.NoError(t, err)
	assert.Contains(t, slots, NewClock(9, 30))
	assert.NotContains(t, slots, NewClock(9, 45))
	assert.NotContains(t, slots, NewClock(10, 15))
	assert.Contains(t, slots, NewClock(10, 30))
}

func TestGenerateSlots_InvalidArguments(t *testing.T) {
	_, err := GenerateSlots(DefaultWindow(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSlots(DefaultWindow(), -30, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSlots(TimeWindow{Start: NewClock(18, 0), End: NewClock(8, 0), Step: 15}, 30, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = GenerateSlots(TimeWindow{Start: NewClock(8, 0), End: NewClock(18, 0)}, 30, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// Every returned slot is conflict free and finishes in the window, and every
// grid point satisfying both conditions is returned exactly once, ascending.
func TestGenerateSlots_SoundAndComplete(t *testing.T) {
	window := DefaultWindow()
	bookingSets := [][]Interval{
		nil,
		{{Start: NewClock(8, 0), Duration: 45}},
		{{Start: NewClock(13, 10), Duration: 50}, {Start: NewClock(9, 0), Duration: 15}},
		{{Start: NewClock(17, 0), Duration: 60}, {Start: NewClock(11, 30), Duration: 90}, {Start: NewClock(8, 30), Duration: 30}},
	}

	for _, existing := range bookingSets {
		for _, duration := range []int{10, 15, 30, 45, 60, 90, 240} {
			slots, err := GenerateSlots(window, duration, existing)
			require.NoError(t, err)

			seen := make(map[Clock]bool)
			for i, s := range slots {
				conflict, err := ExistsConflict(s, duration, existing)
				require.NoError(t, err)
				assert.False(t, conflict)
				assert.LessOrEqual(t, int(s.Add(duration)), int(window.End))
				assert.False(t, seen[s], "duplicate slot %s", s)
				seen[s] = true
				if i > 0 {
					assert.Less(t, int(slots[i-1]), int(s))
				}
			}

			for g := window.Start; g.Add(duration) <= window.End; g = g.Add(window.Step) {
				conflict, err := ExistsConflict(g, duration, existing)
				require.NoError(t, err)
				assert.Equal(t, !conflict, seen[g], "grid point %s duration %d", g, duration)
			}
		}
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	existing := []Interval{{Start: NewClock(9, 0), Duration: 45}, {Start: NewClock(15, 15), Duration: 30}}

	first, err := GenerateSlots(DefaultWindow(), 45, existing)
	require.NoError(t, err)
	second, err := GenerateSlots(DefaultWindow(), 45, existing)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateSlots_CustomWindow(t *testing.T) {
	w, err := NewTimeWindow("13:00", "15:00", 30)
	require.NoError(t, err)

	slots, err := GenerateSlots(w, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, clocks(t, "13:00", "13:30", "14:00"), slots)
}
