package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateWithWeekday форматирует дату с днём недели: "09.04.2025 (Ср)"
func FormatDateWithWeekday(t time.Time) string {
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), GetWeekdayShort(t.Weekday()))
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// FormatInterval описывает шаг между визитами пакета
func FormatInterval(timeInterval int) string {
	if timeInterval <= 0 {
		return "даты на выбор"
	}
	return fmt.Sprintf("каждые %d %s", timeInterval+1, PluralizeDays(timeInterval+1))
}

var weekdayNames = []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

var weekdayShort = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday time.Weekday) string {
	return weekdayNames[scheduling.WeekdayIndex(weekday)]
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday time.Weekday) string {
	return weekdayShort[scheduling.WeekdayIndex(weekday)]
}

// WeekdayHeaders короткие названия дней начиная с понедельника
func WeekdayHeaders() []string {
	out := make([]string, len(weekdayShort))
	copy(out, weekdayShort)
	return out
}

// GetMonthName возвращает название месяца на русском
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}

// FormatWeekRange "07.04 - 13.04.2025" для недели, начинающейся weekStart
func FormatWeekRange(weekStart time.Time) string {
	end := scheduling.AddDays(weekStart, 6)
	return fmt.Sprintf("%s - %s", weekStart.Format("02.01"), end.Format("02.01.2006"))
}
