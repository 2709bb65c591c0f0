package scheduling

import "time"

// Clock источник текущего времени для расчётов расписания
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает настенное время в часовом поясе сервиса
type SystemClock struct {
	Location *time.Location
}

// Now возвращает текущее время
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock всегда возвращает одно и то же время (тесты, превью)
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированное время
func (c FixedClock) Now() time.Time {
	return c.T
}

// StartOfDay нормализует время к началу дня в его часовом поясе
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что две даты приходятся на один календарный день
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// AddDays сдвигает дату на n календарных дней (без учёта перехода на летнее время)
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// StartOfWeek возвращает понедельник 00:00 недели, в которую попадает t
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -WeekdayIndex(day.Weekday()))
}

// WeekdayIndex переводит time.Weekday в индекс, где понедельник = 0, воскресенье = 6
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
