package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workday = DayWindow{Open: "08:00", Close: "22:00"}

func TestGenerateSlots_OverlappingGrid(t *testing.T) {
	slots := GenerateSlots("08:00", 45, workday, 30)

	require.Len(t, slots, 27)
	assert.Equal(t, "08:00", slots[0].Start)
	assert.Equal(t, "08:45", slots[0].End)
	assert.Equal(t, "08:00 - 08:45", slots[0].Display)
	assert.Equal(t, "08:00-08:45", slots[0].Value)
	assert.Equal(t, "08:30", slots[1].Start)
	assert.Equal(t, "09:15", slots[1].End)

	last := slots[len(slots)-1]
	assert.Equal(t, "21:00", last.Start)
	assert.Equal(t, "21:45", last.End)
}

func TestGenerateSlots_StaysInsideWindow(t *testing.T) {
	cases := []struct {
		start    string
		duration int
		step     int
	}{
		{"08:00", 45, 30},
		{"08:00", 60, 15},
		{"09:10", 90, 20},
		{"21:00", 60, 30},
		{"21:30", 30, 5},
	}

	open, _ := ParseClock(workday.Open)
	closeAt, _ := ParseClock(workday.Close)

	for _, tc := range cases {
		slots := GenerateSlots(tc.start, tc.duration, workday, tc.step)
		require.NotEmpty(t, slots, "start %s duration %d", tc.start, tc.duration)
		for _, s := range slots {
			start, err := ParseClock(s.Start)
			require.NoError(t, err)
			end, err := ParseClock(s.End)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, start, open)
			assert.LessOrEqual(t, end, closeAt)
			assert.Equal(t, tc.duration, end-start)
		}
	}
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	assert.Empty(t, GenerateSlots("08:00", 0, workday, 30))
	assert.Empty(t, GenerateSlots("08:00", 45, workday, 0))
	assert.Empty(t, GenerateSlots("07:30", 45, workday, 30))
	assert.Empty(t, GenerateSlots("22:00", 45, workday, 30))
	assert.Empty(t, GenerateSlots("8am", 45, workday, 30))
	assert.Empty(t, GenerateSlots("21:30", 45, workday, 30), "duration does not fit before close")
}

func TestSlotsForDate(t *testing.T) {
	now := time.Date(2025, 4, 9, 10, 10, 0, 0, time.UTC)
	clock := FixedClock{T: now}

	t.Run("today starts at next step", func(t *testing.T) {
		slots := SlotsForDate(now, 45, workday, 30, clock)
		require.NotEmpty(t, slots)
		assert.Equal(t, "10:30", slots[0].Start)
	})

	t.Run("today on exact step", func(t *testing.T) {
		exact := FixedClock{T: time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)}
		slots := SlotsForDate(exact.T, 45, workday, 30, exact)
		require.NotEmpty(t, slots)
		assert.Equal(t, "10:00", slots[0].Start)
	})

	t.Run("before opening", func(t *testing.T) {
		early := FixedClock{T: time.Date(2025, 4, 9, 6, 0, 0, 0, time.UTC)}
		slots := SlotsForDate(early.T, 45, workday, 30, early)
		require.NotEmpty(t, slots)
		assert.Equal(t, "08:00", slots[0].Start)
	})

	t.Run("future date", func(t *testing.T) {
		slots := SlotsForDate(now.AddDate(0, 0, 1), 45, workday, 30, clock)
		require.NotEmpty(t, slots)
		assert.Equal(t, "08:00", slots[0].Start)
	})

	t.Run("past date", func(t *testing.T) {
		assert.Empty(t, SlotsForDate(now.AddDate(0, 0, -1), 45, workday, 30, clock))
	})

	t.Run("after closing", func(t *testing.T) {
		late := FixedClock{T: time.Date(2025, 4, 9, 21, 50, 0, 0, time.UTC)}
		assert.Empty(t, SlotsForDate(late.T, 45, workday, 30, late))
	})
}

func TestFilterBusy(t *testing.T) {
	day := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots("08:00", 45, DayWindow{Open: "08:00", Close: "11:00"}, 30)

	busy := []Interval{
		{Start: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 30*time.Minute)},
	}

	free := FilterBusy(day, slots, busy)

	var starts []string
	for _, s := range free {
		starts = append(starts, s.Start)
	}
	// 08:30-09:15 и 09:00-09:45 пересекаются, 09:30 стыкуется с концом занятого интервала
	assert.Equal(t, []string{"08:00", "09:30", "10:00"}, starts)
}

func TestParseSlotValue(t *testing.T) {
	slot, err := ParseSlotValue("08:30-09:15")
	require.NoError(t, err)
	assert.Equal(t, NewTimeSlot(510, 45), slot)
	assert.Equal(t, 510, slot.StartMinutes())
	assert.Equal(t, 45, slot.DurationMinutes())

	_, err = ParseSlotValue("09:15-08:30")
	assert.Error(t, err)

	_, err = ParseSlotValue("garbage")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, minutesPerDay, m)

	for _, bad := range []string{"", "25:00", "10:60", "24:30", "ab:cd", "10"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
