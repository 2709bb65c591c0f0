package scheduling

import (
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

const (
	defaultStartHour = 8
	defaultEndHour   = 20

	minDurationHours = 0.5
	maxDurationHours = 8.0
)

// GridConfig параметры недельной сетки
type GridConfig struct {
	Location  *time.Location
	StartHour int // первый показываемый час
	EndHour   int // час, которым сетка заканчивается (не включается)
}

// Placement положение визита на недельной сетке
type Placement struct {
	Appointment   *model.Appointment
	DayIndex      int // понедельник = 0
	HourSlot      int // час начала в локальном времени
	StartMinute   int // минуты внутри часа
	Column        int
	Columns       int
	WidthPercent  float64
	LeftPercent   float64
	DurationHours float64
}

// WeekGrid результат раскладки недели
type WeekGrid struct {
	WeekStart  time.Time
	StartHour  int
	EndHour    int
	Placements []Placement
}

// Days возвращает даты недели с понедельника по воскресенье
func (g WeekGrid) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = g.WeekStart.AddDate(0, 0, i)
	}
	return days
}

// Cell возвращает визиты, начинающиеся в указанный день и час
func (g WeekGrid) Cell(dayIndex, hour int) []Placement {
	var out []Placement
	for _, p := range g.Placements {
		if p.DayIndex == dayIndex && p.HourSlot == hour {
			out = append(out, p)
		}
	}
	return out
}

type cellKey struct {
	day  int
	hour int
}

// LayoutWeek раскладывает визиты по дням и часам недели, начинающейся в weekStart.
// Визиты в одной ячейке делят её ширину поровну в порядке входного списка.
// Входной срез не изменяется.
func LayoutWeek(appointments []*model.Appointment, weekStart time.Time, cfg GridConfig) WeekGrid {
	loc := cfg.Location
	if loc == nil {
		loc = weekStart.Location()
	}

	startHour, endHour := cfg.StartHour, cfg.EndHour
	if startHour == 0 && endHour == 0 {
		startHour, endHour = defaultStartHour, defaultEndHour
	}

	from := StartOfWeek(weekStart.In(loc))
	to := from.AddDate(0, 0, 7)

	grid := WeekGrid{WeekStart: from}

	cells := make(map[cellKey][]int)
	for _, a := range appointments {
		if a == nil {
			continue
		}
		start := a.EstDate.In(loc)
		if start.Before(from) || !start.Before(to) {
			continue
		}

		p := Placement{
			Appointment:   a,
			DayIndex:      WeekdayIndex(start.Weekday()),
			HourSlot:      start.Hour(),
			StartMinute:   start.Minute(),
			DurationHours: clampDuration(a.TotalEstDuration),
		}

		key := cellKey{day: p.DayIndex, hour: p.HourSlot}
		cells[key] = append(cells[key], len(grid.Placements))
		grid.Placements = append(grid.Placements, p)

		if p.HourSlot < startHour {
			startHour = p.HourSlot
		}
		end := p.HourSlot + ceilHours(float64(p.StartMinute)/60+p.DurationHours)
		if end > 24 {
			end = 24
		}
		if end > endHour {
			endHour = end
		}
	}

	for _, idx := range cells {
		width := 100.0 / float64(len(idx))
		for column, i := range idx {
			grid.Placements[i].Column = column
			grid.Placements[i].Columns = len(idx)
			grid.Placements[i].WidthPercent = width
			grid.Placements[i].LeftPercent = width * float64(column)
		}
	}

	grid.StartHour = startHour
	grid.EndHour = endHour
	return grid
}

func clampDuration(minutes int) float64 {
	hours := float64(minutes) / 60
	if hours < minDurationHours {
		return minDurationHours
	}
	if hours > maxDurationHours {
		return maxDurationHours
	}
	return hours
}

func ceilHours(h float64) int {
	n := int(h)
	if float64(n) < h {
		n++
	}
	return n
}
