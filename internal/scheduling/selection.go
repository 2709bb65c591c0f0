package scheduling

import "time"

// SelectedDateTime выбранные дата и слот для одного визита пакета
type SelectedDateTime struct {
	Date      time.Time `json:"date"`
	TimeSlot  TimeSlot  `json:"time_slot"`
	ISOString string    `json:"iso_string,omitempty"`
}

// StartsAt возвращает момент начала визита
func (s SelectedDateTime) StartsAt() time.Time {
	return s.TimeSlot.On(s.Date)
}

// ToISO собирает RFC3339-метку в часовом поясе даты. Календарный день в строке
// всегда совпадает с выбранным днём.
func ToISO(date time.Time, slot TimeSlot) string {
	return slot.On(date).Format(time.RFC3339)
}

// Selection хранит ход выбора дат и слотов для многодневного пакета.
// Не потокобезопасна: ею владеет один диалог пользователя.
type Selection struct {
	plan  Plan
	clock Clock

	editingDayIndex int
	selected        []SelectedDateTime
	activeDate      time.Time
	pendingSlot     *TimeSlot

	// OnTimesSelect вызывается после каждого успешного выбора слота с полной копией списка
	OnTimesSelect func(datetimes []SelectedDateTime)
}

// NewSelection создаёт пустой выбор для пакета; активная дата - сегодня
func NewSelection(plan Plan, clock Clock) *Selection {
	if plan.ComboDays < 1 {
		plan.ComboDays = 1
	}
	if plan.TimeInterval < 0 {
		plan.TimeInterval = 0
	}

	return &Selection{
		plan:       plan,
		clock:      clock,
		selected:   make([]SelectedDateTime, 0, plan.ComboDays),
		activeDate: NextCandidate(nil, plan.TimeInterval, clock.Now()),
	}
}

// Plan возвращает параметры пакета
func (s *Selection) Plan() Plan {
	return s.plan
}

// EditingDayIndex индекс редактируемого визита
func (s *Selection) EditingDayIndex() int {
	return s.editingDayIndex
}

// ActiveDate текущая выбранная дата
func (s *Selection) ActiveDate() time.Time {
	return s.activeDate
}

// PendingSlot слот, отмеченный для активной даты, либо nil
func (s *Selection) PendingSlot() *TimeSlot {
	if s.pendingSlot == nil {
		return nil
	}
	slot := *s.pendingSlot
	return &slot
}

// SelectedDates копия списка выбранных визитов
func (s *Selection) SelectedDates() []SelectedDateTime {
	out := make([]SelectedDateTime, len(s.selected))
	copy(out, s.selected)
	return out
}

// Complete все визиты пакета выбраны
func (s *Selection) Complete() bool {
	return len(s.selected) == s.plan.ComboDays
}

// PriorDates даты визитов перед редактируемым
func (s *Selection) PriorDates() []time.Time {
	return datesOf(s.selected[:min(s.editingDayIndex, len(s.selected))])
}

// IsDateDisabled можно ли выбрать дату для редактируемого визита
func (s *Selection) IsDateDisabled(date time.Time) bool {
	return IsDateDisabled(date, s.PriorDates(), s.plan.TimeInterval, s.clock.Now())
}

// IsDateSuggested подсвечивать ли дату для редактируемого визита
func (s *Selection) IsDateSuggested(date time.Time) bool {
	return IsDateSuggested(date, s.PriorDates(), s.plan.TimeInterval, s.plan.ComboDays, s.clock.Now())
}

// SuggestedDates все даты пакета при фиксированном интервале
func (s *Selection) SuggestedDates() []time.Time {
	return SuggestedDates(datesOf(s.selected), s.plan.TimeInterval, s.plan.ComboDays)
}

// SlotsForActiveDate слоты на активную дату
func (s *Selection) SlotsForActiveDate(duration int, window DayWindow, stepMinutes int) []TimeSlot {
	return SlotsForDate(s.activeDate, duration, window, stepMinutes, s.clock)
}

// SelectDate делает дату активной. Запрещённая дата игнорируется.
func (s *Selection) SelectDate(date time.Time) bool {
	if s.IsDateDisabled(date) {
		return false
	}
	s.activeDate = StartOfDay(date)
	s.pendingSlot = nil
	return true
}

// SelectSlot фиксирует слот на активную дату для редактируемого визита.
// Все визиты начиная с редактируемого отбрасываются: последующие даты зависят от него.
func (s *Selection) SelectSlot(slot TimeSlot) bool {
	if s.activeDate.IsZero() || s.IsDateDisabled(s.activeDate) {
		return false
	}
	if s.editingDayIndex > len(s.selected) || s.editingDayIndex >= s.plan.ComboDays {
		return false
	}

	entry := SelectedDateTime{
		Date:      s.activeDate,
		TimeSlot:  slot,
		ISOString: ToISO(s.activeDate, slot),
	}

	s.selected = append(s.selected[:s.editingDayIndex], entry)
	recorded := slot
	s.pendingSlot = &recorded

	if s.OnTimesSelect != nil {
		s.OnTimesSelect(s.SelectedDates())
	}

	if len(s.selected) < s.plan.ComboDays {
		s.editingDayIndex = len(s.selected)
		s.activeDate = NextCandidate(datesOf(s.selected), s.plan.TimeInterval, s.clock.Now())
		s.pendingSlot = nil
	}

	return true
}

// EditDay переключает редактирование на визит i
func (s *Selection) EditDay(i int) bool {
	if i < 0 || i >= s.plan.ComboDays || i > len(s.selected) {
		return false
	}

	s.editingDayIndex = i
	if i < len(s.selected) {
		s.activeDate = s.selected[i].Date
		restored := s.selected[i].TimeSlot
		s.pendingSlot = &restored
		return true
	}

	s.activeDate = NextCandidate(datesOf(s.selected[:i]), s.plan.TimeInterval, s.clock.Now())
	s.pendingSlot = nil
	return true
}

func datesOf(entries []SelectedDateTime) []time.Time {
	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return dates
}
