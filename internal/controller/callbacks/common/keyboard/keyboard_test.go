package keyboard

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthCalendar_Layout(t *testing.T) {
	// Апрель 2025 начинается во вторник
	month := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	rows := MonthCalendar(CalendarOptions{
		Month:      month,
		DatePrefix: "bk_date:",
		NavPrefix:  "bk_month:",
		CanNext:    true,
	})

	require.Len(t, rows, 2+5)
	assert.Equal(t, "Апрель 2025", rows[0][1].Text)
	assert.Equal(t, "noop", rows[0][0].CallbackData, "назад листать нельзя")
	assert.Equal(t, "bk_month:2025-05", rows[0][2].CallbackData)
	assert.Equal(t, "Пн", rows[1][0].Text)

	first := rows[2]
	require.Len(t, first, 7)
	assert.Equal(t, " ", first[0].Text)
	assert.Equal(t, "1", first[1].Text)
	assert.Equal(t, "bk_date:2025-04-01", first[1].CallbackData)

	last := rows[len(rows)-1]
	require.Len(t, last, 7)
	assert.Equal(t, "30", last[2].Text)
	assert.Equal(t, " ", last[6].Text)
}

func TestMonthCalendar_Marks(t *testing.T) {
	month := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := MonthCalendar(CalendarOptions{
		Month:      month,
		DatePrefix: "d:",
		NavPrefix:  "m:",
		Mark: func(day time.Time) DayMark {
			switch day.Day() {
			case 1:
				return DayDisabled
			case 2:
				return DaySelected
			case 3:
				return DaySuggested
			case 5:
				return DayLocked
			}
			return DayAvailable
		},
	})

	week := rows[2]
	assert.Equal(t, "·", week[1].Text)
	assert.Equal(t, "noop", week[1].CallbackData)
	assert.Equal(t, "✅2", week[2].Text)
	assert.Equal(t, "•3", week[3].Text)
	assert.Equal(t, "4", week[4].Text)
	assert.Equal(t, "✅5", week[5].Text)
	assert.Equal(t, "noop", week[5].CallbackData)
	assert.Equal(t, "d:2025-04-02", week[2].CallbackData)
}

func TestParseDateAndMonth(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)

	d, err := ParseDate("2025-04-09", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 9, 0, 0, 0, 0, loc), d)

	m, err := ParseMonth("2025-04", loc)
	require.NoError(t, err)
	assert.Equal(t, time.April, m.Month())

	_, err = ParseDate("09.04.2025", loc)
	assert.Error(t, err)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	buttons := PaginationButtons("p:", 1, 3)
	require.Len(t, buttons, 3)
	assert.Equal(t, "p:0", buttons[0].CallbackData)
	assert.Equal(t, "📄 2/3", buttons[1].Text)
	assert.Equal(t, "p:2", buttons[2].CallbackData)
}

func TestPage(t *testing.T) {
	from, to, pages := Page(12, 1, 5)
	assert.Equal(t, 5, from)
	assert.Equal(t, 10, to)
	assert.Equal(t, 3, pages)

	from, to, pages = Page(0, 3, 5)
	assert.Equal(t, 0, from)
	assert.Equal(t, 0, to)
	assert.Equal(t, 1, pages)

	from, to, _ = Page(12, 9, 5)
	assert.Equal(t, 10, from)
	assert.Equal(t, 12, to)
}

func TestBuilderGrid(t *testing.T) {
	row := make([]models.InlineKeyboardButton, 0, 5)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		row = append(row, Button(s, s))
	}

	kb := NewBuilder().Grid(row, 2).Build()

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[2], 1)
	assert.Equal(t, "e", kb.InlineKeyboard[2][0].CallbackData)
}
