package client

import (
	"sync"
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// bookingDraft ход мастера записи, хранится в state под ключом state.KeyBooking
type bookingDraft struct {
	mu sync.Mutex

	Patient   *model.Patient
	Package   *model.ServicePackage
	Selection *scheduling.Selection
	Month     time.Time // показываемый месяц календаря
	NurseID   *int64
}

// loadDraft достаёт черновик записи из состояния пользователя и блокирует его.
// Вызывающий обязан вызвать unlock.
func loadDraft(hc *common.HandlerContext) (*bookingDraft, func(), error) {
	v, ok := hc.GetData(state.KeyBooking)
	if !ok {
		return nil, nil, common.ErrSessionExpired
	}
	d, ok := v.(*bookingDraft)
	if !ok || d == nil {
		return nil, nil, common.ErrSessionExpired
	}

	d.mu.Lock()
	return d, d.mu.Unlock, nil
}

// lastBookableDay последний день, доступный для записи
func lastBookableDay(now time.Time, horizonDays int) time.Time {
	return scheduling.AddDays(now, horizonDays)
}

// monthStart первое число месяца
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// fitsHorizon проверяет, что с этой датой редактируемого визита
// вся оставшаяся серия укладывается в горизонт записи
func fitsHorizon(sel *scheduling.Selection, day, lastDay time.Time) bool {
	rest := scheduling.Plan{
		ComboDays:    sel.Plan().ComboDays - sel.EditingDayIndex(),
		TimeInterval: sel.Plan().TimeInterval,
	}
	return !scheduling.AddDays(day, rest.SpanDays()).After(lastDay)
}

// calendarMark решает, как показать день в календаре мастера.
// Выбранный день, который нельзя выбрать для редактируемого визита, показывается без действия.
func calendarMark(sel *scheduling.Selection, day, lastDay time.Time) keyboard.DayMark {
	selectable := fitsHorizon(sel, day, lastDay) && !sel.IsDateDisabled(day)

	for _, s := range sel.SelectedDates() {
		if !scheduling.SameDay(s.Date, day) {
			continue
		}
		if !selectable {
			return keyboard.DayLocked
		}
		return keyboard.DaySelected
	}
	if !selectable {
		return keyboard.DayDisabled
	}
	if sel.Plan().TimeInterval > 0 && len(sel.PriorDates()) > 0 && sel.IsDateSuggested(day) {
		return keyboard.DaySuggested
	}
	return keyboard.DayAvailable
}
