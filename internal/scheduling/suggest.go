package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// Plan параметры многодневного пакета услуг
type Plan struct {
	ComboDays    int // количество визитов в пакете
	TimeInterval int // дней между визитами, 0 - без фиксированного шага
}

// SpanDays минимальное число дней от первого визита до последнего
func (p Plan) SpanDays() int {
	if p.ComboDays <= 1 {
		return 0
	}
	return (p.ComboDays - 1) * step(max(p.TimeInterval, 0))
}

// ErrInvalidSchedule набор дат не соответствует правилам пакета
var ErrInvalidSchedule = errors.New("invalid schedule")

// step шаг между соседними визитами при фиксированном интервале
func step(timeInterval int) int {
	return timeInterval + 1
}

// containsDay проверяет, есть ли день среди дат
func containsDay(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if SameDay(d, day) {
			return true
		}
	}
	return false
}

// latestDay возвращает самую позднюю из дат
func latestDay(dates []time.Time) time.Time {
	latest := StartOfDay(dates[0])
	for _, d := range dates[1:] {
		if day := StartOfDay(d); day.After(latest) {
			latest = day
		}
	}
	return latest
}

// IsDateDisabled решает, можно ли выбрать дату для следующего визита.
// prior - даты визитов, уже зафиксированных до редактируемого.
func IsDateDisabled(date time.Time, prior []time.Time, timeInterval int, now time.Time) bool {
	day := StartOfDay(date)
	today := StartOfDay(now.In(date.Location()))

	if day.Before(today) {
		return true
	}
	if containsDay(prior, day) {
		return true
	}
	if len(prior) == 0 {
		return false
	}

	if timeInterval > 0 {
		expected := AddDays(prior[0], len(prior)*step(timeInterval))
		return !SameDay(day, expected)
	}

	return !day.After(latestDay(prior))
}

// IsDateSuggested решает, подсвечивать ли дату как рекомендуемую.
// Пока ни одна дата не выбрана, рекомендуется любой будущий день.
func IsDateSuggested(date time.Time, prior []time.Time, timeInterval, comboDays int, now time.Time) bool {
	if len(prior) >= comboDays {
		return false
	}
	return !IsDateDisabled(date, prior, timeInterval, now)
}

// SuggestedDates возвращает все даты пакета при фиксированном интервале: D0 + i*(interval+1).
// Для интервала 0 или без первой даты фиксированного списка нет.
func SuggestedDates(prior []time.Time, timeInterval, comboDays int) []time.Time {
	if timeInterval <= 0 || len(prior) == 0 || comboDays <= 0 {
		return nil
	}

	dates := make([]time.Time, 0, comboDays)
	for i := 0; i < comboDays; i++ {
		dates = append(dates, AddDays(prior[0], i*step(timeInterval)))
	}
	return dates
}

// NextCandidate вычисляет дату, которую стоит предложить для следующего визита
func NextCandidate(prior []time.Time, timeInterval int, now time.Time) time.Time {
	today := StartOfDay(now)
	if len(prior) == 0 {
		return today
	}

	if timeInterval > 0 {
		return AddDays(prior[0], len(prior)*step(timeInterval))
	}

	next := AddDays(latestDay(prior), 1)
	if next.Before(today) {
		return today
	}
	return next
}

// ValidateSchedule проверяет полный набор дат пакета перед сохранением
func ValidateSchedule(dates []time.Time, plan Plan) error {
	if plan.ComboDays <= 0 {
		return fmt.Errorf("%w: package has no sessions", ErrInvalidSchedule)
	}
	if len(dates) != plan.ComboDays {
		return fmt.Errorf("%w: expected %d dates, got %d", ErrInvalidSchedule, plan.ComboDays, len(dates))
	}

	for i := 1; i < len(dates); i++ {
		prev := StartOfDay(dates[i-1])
		day := StartOfDay(dates[i])

		if containsDay(dates[:i], day) {
			return fmt.Errorf("%w: date %s is used twice", ErrInvalidSchedule, day.Format("2006-01-02"))
		}

		if plan.TimeInterval > 0 {
			expected := AddDays(dates[0], i*step(plan.TimeInterval))
			if !SameDay(day, expected) {
				return fmt.Errorf("%w: session %d must be on %s", ErrInvalidSchedule, i+1, expected.Format("2006-01-02"))
			}
			continue
		}

		if !day.After(prev) {
			return fmt.Errorf("%w: session %d is not after session %d", ErrInvalidSchedule, i+1, i)
		}
	}

	return nil
}
