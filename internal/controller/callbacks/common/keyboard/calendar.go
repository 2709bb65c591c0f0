package keyboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// DayMark как показать день в календаре
type DayMark int

const (
	DayDisabled DayMark = iota
	DayAvailable
	DaySuggested
	DaySelected
	DayLocked // выбран ранее, менять нельзя
)

// DateLayout формат даты в callback data
const DateLayout = "2006-01-02"

// MonthLayout формат месяца в callback data
const MonthLayout = "2006-01"

// CalendarOptions параметры месячного календаря
type CalendarOptions struct {
	Month      time.Time // любой день нужного месяца
	DatePrefix string    // callback для дня: DatePrefix + "2025-04-09"
	NavPrefix  string    // callback для листания: NavPrefix + "2025-05"
	CanPrev    bool
	CanNext    bool
	Mark       func(day time.Time) DayMark
}

// MonthCalendar строит сетку месяца с понедельника. Недоступные дни показываются точкой
// и не кликабельны.
func MonthCalendar(opts CalendarOptions) [][]models.InlineKeyboardButton {
	first := time.Date(opts.Month.Year(), opts.Month.Month(), 1, 0, 0, 0, 0, opts.Month.Location())
	offset := scheduling.WeekdayIndex(first.Weekday())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	rows := make([][]models.InlineKeyboardButton, 0, 8)

	title := fmt.Sprintf("%s %d", formatting.GetMonthName(first.Month()), first.Year())
	nav := []models.InlineKeyboardButton{Noop(" "), Noop(title), Noop(" ")}
	if opts.CanPrev {
		nav[0] = Button("◀️", opts.NavPrefix+first.AddDate(0, -1, 0).Format(MonthLayout))
	}
	if opts.CanNext {
		nav[2] = Button("▶️", opts.NavPrefix+first.AddDate(0, 1, 0).Format(MonthLayout))
	}
	rows = append(rows, nav)

	header := make([]models.InlineKeyboardButton, 0, 7)
	for _, name := range formatting.WeekdayHeaders() {
		header = append(header, Noop(name))
	}
	rows = append(rows, header)

	row := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		row = append(row, Noop(" "))
	}

	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location())
		mark := DayAvailable
		if opts.Mark != nil {
			mark = opts.Mark(day)
		}
		row = append(row, dayButton(day, mark, opts.DatePrefix))

		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]models.InlineKeyboardButton, 0, 7)
		}
	}

	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, Noop(" "))
		}
		rows = append(rows, row)
	}

	return rows
}

func dayButton(day time.Time, mark DayMark, prefix string) models.InlineKeyboardButton {
	label := strconv.Itoa(day.Day())
	switch mark {
	case DayDisabled:
		return Noop("·")
	case DaySuggested:
		label = "•" + label
	case DaySelected:
		label = "✅" + label
	case DayLocked:
		return Noop("✅" + label)
	}
	return Button(label, prefix+day.Format(DateLayout))
}

// ParseDate разбирает дату из callback в указанном часовом поясе
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseMonth разбирает месяц из callback в указанном часовом поясе
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, s, loc)
}
