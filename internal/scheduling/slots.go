package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeSlot окно для записи внутри одного дня
type TimeSlot struct {
	Start   string `json:"start"` // HH:MM
	End     string `json:"end"`   // HH:MM
	Display string `json:"display"`
	Value   string `json:"value"`
}

// DayWindow рабочие часы дня, Close не включается
type DayWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// minutesPerDay ограничение для HH:MM
const minutesPerDay = 24 * 60

// ParseClock разбирает строку HH:MM в минуты от полуночи
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	total := hour*60 + minute
	if total > minutesPerDay {
		return 0, fmt.Errorf("time %q is out of day range", s)
	}
	return total, nil
}

// FormatClock форматирует минуты от полуночи в HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NewTimeSlot создаёт слот [start, start+duration)
func NewTimeSlot(startMinutes, durationMinutes int) TimeSlot {
	start := FormatClock(startMinutes)
	end := FormatClock(startMinutes + durationMinutes)
	return TimeSlot{
		Start:   start,
		End:     end,
		Display: start + " - " + end,
		Value:   start + "-" + end,
	}
}

// ParseSlotValue восстанавливает слот из значения вида "08:00-08:45"
func ParseSlotValue(value string) (TimeSlot, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("invalid slot value %q", value)
	}

	start, err := ParseClock(parts[0])
	if err != nil {
		return TimeSlot{}, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return TimeSlot{}, err
	}
	if end <= start {
		return TimeSlot{}, fmt.Errorf("slot %q ends before it starts", value)
	}

	return NewTimeSlot(start, end-start), nil
}

// StartMinutes возвращает начало слота в минутах от полуночи
func (s TimeSlot) StartMinutes() int {
	m, _ := ParseClock(s.Start)
	return m
}

// DurationMinutes возвращает длительность слота
func (s TimeSlot) DurationMinutes() int {
	start, _ := ParseClock(s.Start)
	end, _ := ParseClock(s.End)
	return end - start
}

// On возвращает начало слота в указанный день
func (s TimeSlot) On(date time.Time) time.Time {
	return StartOfDay(date).Add(time.Duration(s.StartMinutes()) * time.Minute)
}

// GenerateSlots нарезает окна длиной requiredDuration начиная с startTime с шагом step,
// пока окно помещается до закрытия. Пустой результат означает отсутствие свободного времени.
func GenerateSlots(startTime string, requiredDuration int, window DayWindow, step int) []TimeSlot {
	if requiredDuration <= 0 || step <= 0 {
		return nil
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return nil
	}
	open, err := ParseClock(window.Open)
	if err != nil {
		return nil
	}
	closeAt, err := ParseClock(window.Close)
	if err != nil {
		return nil
	}

	if start < open || start >= closeAt {
		return nil
	}

	var slots []TimeSlot
	for current := start; current+requiredDuration <= closeAt; current += step {
		slots = append(slots, NewTimeSlot(current, requiredDuration))
	}
	return slots
}

// SlotsForDate генерирует слоты на конкретную дату. Для сегодняшнего дня сетка начинается
// с первого шага после текущего времени, для прошедших дат слотов нет.
func SlotsForDate(date time.Time, requiredDuration int, window DayWindow, step int, clock Clock) []TimeSlot {
	if step <= 0 {
		return nil
	}

	now := clock.Now().In(date.Location())
	day := StartOfDay(date)
	today := StartOfDay(now)

	if day.Before(today) {
		return nil
	}

	startTime := window.Open
	if day.Equal(today) {
		open, err := ParseClock(window.Open)
		if err != nil {
			return nil
		}
		nowMinutes := now.Hour()*60 + now.Minute()
		if now.Second() > 0 || now.Nanosecond() > 0 {
			nowMinutes++
		}

		first := open
		if nowMinutes > open {
			steps := (nowMinutes - open + step - 1) / step
			first = open + steps*step
		}
		if first >= minutesPerDay {
			return nil
		}
		startTime = FormatClock(first)
	}

	return GenerateSlots(startTime, requiredDuration, window, step)
}

// FilterBusy убирает слоты, пересекающиеся с занятыми интервалами.
// Интервалы полуоткрытые: [start,end) пересекается с [b.Start,b.End), если start < b.End && b.Start < end.
func FilterBusy(date time.Time, slots []TimeSlot, busy []Interval) []TimeSlot {
	if len(busy) == 0 {
		return slots
	}

	var free []TimeSlot
	for _, slot := range slots {
		start := slot.On(date)
		end := start.Add(time.Duration(slot.DurationMinutes()) * time.Minute)
		if !overlapsAny(start, end, busy) {
			free = append(free, slot)
		}
	}
	return free
}

// Interval занятый промежуток времени
type Interval struct {
	Start time.Time
	End   time.Time
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
