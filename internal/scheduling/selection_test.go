package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func morningSlot() TimeSlot {
	return NewTimeSlot(8*60, 45)
}

func newTestSelection(plan Plan) (*Selection, *[][]SelectedDateTime) {
	clock := FixedClock{T: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)}
	sel := NewSelection(plan, clock)

	var calls [][]SelectedDateTime
	sel.OnTimesSelect = func(datetimes []SelectedDateTime) {
		calls = append(calls, datetimes)
	}
	return sel, &calls
}

func TestSelection_FixedIntervalFlow(t *testing.T) {
	sel, calls := newTestSelection(Plan{ComboDays: 3, TimeInterval: 3})

	assert.Equal(t, day(2025, 4, 1), sel.ActiveDate())

	require.True(t, sel.SelectDate(day(2025, 4, 9)))
	require.True(t, sel.SelectSlot(morningSlot()))

	assert.Equal(t, 1, sel.EditingDayIndex())
	assert.Equal(t, day(2025, 4, 13), sel.ActiveDate())
	assert.Nil(t, sel.PendingSlot())

	assert.False(t, sel.SelectDate(day(2025, 4, 14)))
	assert.Equal(t, day(2025, 4, 13), sel.ActiveDate(), "rejected date keeps active date")

	require.True(t, sel.SelectSlot(morningSlot()))
	assert.Equal(t, day(2025, 4, 17), sel.ActiveDate())

	require.True(t, sel.SelectSlot(morningSlot()))
	assert.True(t, sel.Complete())

	require.Len(t, *calls, 3)
	for i, call := range *calls {
		assert.Len(t, call, i+1)
	}

	last := (*calls)[2]
	assert.Equal(t, day(2025, 4, 9), last[0].Date)
	assert.Equal(t, day(2025, 4, 13), last[1].Date)
	assert.Equal(t, day(2025, 4, 17), last[2].Date)

	assert.Equal(t, []time.Time{day(2025, 4, 9), day(2025, 4, 13), day(2025, 4, 17)}, sel.SuggestedDates())
}

func TestSelection_EditFirstDayTruncates(t *testing.T) {
	sel, calls := newTestSelection(Plan{ComboDays: 3, TimeInterval: 3})

	require.True(t, sel.SelectDate(day(2025, 4, 9)))
	require.True(t, sel.SelectSlot(morningSlot()))
	require.True(t, sel.SelectSlot(morningSlot()))

	require.True(t, sel.EditDay(0))
	assert.Equal(t, day(2025, 4, 9), sel.ActiveDate())
	require.NotNil(t, sel.PendingSlot())
	assert.Equal(t, morningSlot(), *sel.PendingSlot())

	require.True(t, sel.SelectDate(day(2025, 4, 10)))
	require.True(t, sel.SelectSlot(NewTimeSlot(10*60, 45)))

	selected := sel.SelectedDates()
	require.Len(t, selected, 1)
	assert.Equal(t, day(2025, 4, 10), selected[0].Date)
	assert.Equal(t, "10:00", selected[0].TimeSlot.Start)
	assert.Equal(t, 1, sel.EditingDayIndex())
	assert.Equal(t, day(2025, 4, 14), sel.ActiveDate())

	assert.Len(t, (*calls)[len(*calls)-1], 1)
}

func TestSelection_EditLastDayOfCompleteSeries(t *testing.T) {
	sel, calls := newTestSelection(Plan{ComboDays: 2, TimeInterval: 0})

	require.True(t, sel.SelectDate(day(2025, 4, 2)))
	require.True(t, sel.SelectSlot(morningSlot()))
	require.True(t, sel.SelectDate(day(2025, 4, 5)))
	require.True(t, sel.SelectSlot(morningSlot()))
	require.True(t, sel.Complete())

	require.True(t, sel.EditDay(1))
	require.True(t, sel.SelectDate(day(2025, 4, 7)))
	require.True(t, sel.SelectSlot(NewTimeSlot(12*60, 45)))

	assert.True(t, sel.Complete())
	latest := (*calls)[len(*calls)-1]
	require.Len(t, latest, 2)
	assert.Equal(t, day(2025, 4, 2), latest[0].Date)
	assert.Equal(t, day(2025, 4, 7), latest[1].Date)
}

func TestSelection_FreeIntervalIsMonotonic(t *testing.T) {
	sel, _ := newTestSelection(Plan{ComboDays: 3, TimeInterval: 0})

	require.True(t, sel.SelectDate(day(2025, 4, 9)))
	require.True(t, sel.SelectSlot(morningSlot()))

	assert.Equal(t, day(2025, 4, 10), sel.ActiveDate())
	assert.False(t, sel.SelectDate(day(2025, 4, 8)))
	assert.False(t, sel.SelectDate(day(2025, 4, 9)))
	assert.True(t, sel.SelectDate(day(2025, 4, 12)))
	require.True(t, sel.SelectSlot(morningSlot()))
	require.True(t, sel.SelectDate(day(2025, 4, 20)))
	require.True(t, sel.SelectSlot(morningSlot()))

	dates := datesOf(sel.SelectedDates())
	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i].After(dates[i-1]))
	}
	require.NoError(t, ValidateSchedule(dates, sel.Plan()))
}

func TestSelection_IllegalActionsAreNoOps(t *testing.T) {
	sel, calls := newTestSelection(Plan{ComboDays: 2, TimeInterval: 1})

	assert.False(t, sel.SelectDate(day(2025, 3, 31)), "past date")
	assert.False(t, sel.EditDay(-1))
	assert.False(t, sel.EditDay(1), "cannot skip unfilled session")
	assert.False(t, sel.EditDay(2))
	assert.Equal(t, 0, sel.EditingDayIndex())
	assert.Empty(t, *calls)

	require.True(t, sel.SelectSlot(morningSlot()))
	require.True(t, sel.EditDay(1))
	assert.Equal(t, day(2025, 4, 3), sel.ActiveDate())
}

func TestSelection_NoCallbackIsFine(t *testing.T) {
	sel := NewSelection(Plan{ComboDays: 1}, FixedClock{T: time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)})
	require.True(t, sel.SelectSlot(morningSlot()))
	assert.True(t, sel.Complete())
}

func TestSelection_ISOStringKeepsLocalDate(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	clock := FixedClock{T: time.Date(2025, 4, 1, 10, 0, 0, 0, loc)}
	sel := NewSelection(Plan{ComboDays: 1}, clock)

	require.True(t, sel.SelectDate(time.Date(2025, 4, 9, 0, 0, 0, 0, loc)))
	require.True(t, sel.SelectSlot(NewTimeSlot(60, 45)))

	got := sel.SelectedDates()[0]
	assert.Equal(t, "2025-04-09T01:00:00+03:00", got.ISOString)
	assert.Equal(t, time.Date(2025, 4, 9, 1, 0, 0, 0, loc), got.StartsAt())
}

func TestSelection_SelectedDatesIsCopy(t *testing.T) {
	sel, _ := newTestSelection(Plan{ComboDays: 2})
	require.True(t, sel.SelectSlot(morningSlot()))

	out := sel.SelectedDates()
	out[0].Date = day(2030, 1, 1)
	assert.Equal(t, day(2025, 4, 1), sel.SelectedDates()[0].Date)
}
