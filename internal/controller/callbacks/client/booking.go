package client

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Booking Wizard Handlers
// ========================
// пациент -> категория -> пакет -> даты и время -> медсестра -> подтверждение

// BuildBookStartScreen первый шаг записи: выбор пациента
func BuildBookStartScreen(ctx context.Context, h *callbacktypes.Handler, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	patients, err := h.PatientService.ListByOwner(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	b := keyboard.NewBuilder()
	for _, p := range patients {
		b.Row(keyboard.Button("👤 "+p.FullName, fmt.Sprintf("bk_patient:%d", p.ID)))
	}
	b.Row(keyboard.Button("➕ Добавить пациента", "pt_new"))
	b.AddBackToMainButton()

	text := "🩺 <b>Запись на услугу</b>\n\nШаг 1: для кого нужен визит?"
	if len(patients) == 0 {
		text = "🩺 <b>Запись на услугу</b>\n\nСначала добавьте профиль пациента: имя, адрес и особенности ухода."
	}
	return text, b.Build(), nil
}

// HandleBookStart показывает выбор пациента
func HandleBookStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		text, kb, err := BuildBookStartScreen(ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "book_start")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandlePickPatient запоминает пациента и показывает категории услуг
func HandlePickPatient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		patientID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		patient, err := h.PatientService.GetForOwner(ctx, hc.User.ID, patientID)
		if err != nil {
			common.HandleError(hc, err, "pick_patient")
			return
		}

		categories, err := h.CatalogService.ListCategories(ctx, true)
		if err != nil {
			common.HandleError(hc, err, "list_categories")
			return
		}

		hc.ClearState()
		hc.EnterState(state.StateBookingSchedule)
		hc.SetData(state.KeyBooking, &bookingDraft{Patient: patient})

		kb := keyboard.NewBuilder()
		for _, c := range categories {
			kb.Row(keyboard.Button("🗂 "+c.Name, fmt.Sprintf("bk_cat:%d", c.ID)))
		}
		kb.AddBackButton("bk_start")

		text := fmt.Sprintf("👤 %s\n\nШаг 2: выберите категорию услуг", html.EscapeString(patient.FullName))
		if len(categories) == 0 {
			text = "😔 Каталог услуг пока пуст. Попробуйте позже."
		}

		hc.EditMessage(text, kb.Build())
		hc.Answer("")
	})
}

// HandlePickCategory показывает пакеты категории
func HandlePickCategory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		categoryID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		d, unlock, err := loadDraft(hc)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		patientID := d.Patient.ID
		unlock()

		category, err := h.CatalogService.GetCategory(ctx, categoryID)
		if err != nil {
			common.HandleError(hc, err, "get_category")
			return
		}
		packages, err := h.CatalogService.ListPackages(ctx, categoryID, true)
		if err != nil {
			common.HandleError(hc, err, "list_packages")
			return
		}

		kb := keyboard.NewBuilder()
		for _, p := range packages {
			kb.Row(keyboard.Button(formatting.FormatPackageShort(p), fmt.Sprintf("bk_pkg:%d", p.ID)))
		}
		kb.AddBackButton(fmt.Sprintf("bk_patient:%d", patientID))

		text := fmt.Sprintf("🗂 <b>%s</b>\n%s\n\nШаг 3: выберите пакет услуг",
			html.EscapeString(category.Name), html.EscapeString(category.Description))
		if len(packages) == 0 {
			text = fmt.Sprintf("🗂 <b>%s</b>\n\nВ этой категории пока нет доступных пакетов.", html.EscapeString(category.Name))
		}

		hc.EditMessage(text, kb.Build())
		hc.Answer("")
	})
}

// HandlePickPackage начинает выбор дат для пакета
func HandlePickPackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		packageID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		pkg, err := h.CatalogService.GetPackage(ctx, packageID)
		if err == nil && !pkg.IsActive {
			err = service.ErrPackageNotFound
		}
		if err != nil {
			common.HandleError(hc, err, "pick_package")
			return
		}

		d, unlock, err := loadDraft(hc)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		defer unlock()

		sel := scheduling.NewSelection(scheduling.Plan{
			ComboDays:    pkg.ComboDays,
			TimeInterval: pkg.TimeInterval,
		}, h.Clock)
		telegramID := hc.TelegramID
		sel.OnTimesSelect = func(datetimes []scheduling.SelectedDateTime) {
			h.Logger.Debug("Booking sessions updated",
				zap.Int64("telegram_id", telegramID),
				zap.Int64("package_id", pkg.ID),
				zap.Int("selected", len(datetimes)))
		}

		d.Package = pkg
		d.Selection = sel
		d.Month = monthStart(sel.ActiveDate())
		d.NurseID = nil

		h.Logger.Info("Booking schedule started",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("patient_id", d.Patient.ID),
			zap.Int64("package_id", pkg.ID))

		text, kb := buildCalendarScreen(h, d)
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// buildCalendarScreen экран выбора даты для редактируемого визита
func buildCalendarScreen(h *callbacktypes.Handler, d *bookingDraft) (string, *models.InlineKeyboardMarkup) {
	sel := d.Selection
	plan := sel.Plan()
	now := h.Now()
	lastDay := lastBookableDay(now, h.BookingService.Policy().HorizonDays)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 <b>%s</b> · 👤 %s\n", html.EscapeString(d.Package.Name), html.EscapeString(d.Patient.FullName))
	fmt.Fprintf(&sb, "⏱ %s на визит", formatting.FormatDuration(d.Package.SessionDuration))
	if d.Package.IsMultiDay() {
		fmt.Fprintf(&sb, ", %s", formatting.FormatInterval(plan.TimeInterval))
	}
	sb.WriteString("\n\n")

	if plan.ComboDays > 1 {
		sb.WriteString(formatting.FormatSelectedSessions(sel.SelectedDates(), plan.ComboDays, sel.EditingDayIndex()))
		sb.WriteString("\n")
	}

	switch {
	case sel.Complete():
		sb.WriteString("✅ Все визиты выбраны. Можно изменить любой день или продолжить.")
	case plan.TimeInterval > 0 && len(sel.PriorDates()) > 0:
		fmt.Fprintf(&sb, "📅 Визит %d по графику: %s. Выберите дату •",
			sel.EditingDayIndex()+1, formatting.FormatDateWithWeekday(sel.ActiveDate()))
	default:
		fmt.Fprintf(&sb, "📅 Выберите дату визита %d из %d", sel.EditingDayIndex()+1, plan.ComboDays)
	}

	kb := keyboard.NewBuilder().AddRows(keyboard.MonthCalendar(keyboard.CalendarOptions{
		Month:      d.Month,
		DatePrefix: "bk_date:",
		NavPrefix:  "bk_month:",
		CanPrev:    d.Month.After(monthStart(now)),
		CanNext:    d.Month.Before(monthStart(lastDay)),
		Mark: func(day time.Time) keyboard.DayMark {
			return calendarMark(sel, day, lastDay)
		},
	}))

	if plan.ComboDays > 1 {
		selected := len(sel.SelectedDates())
		edits := make([]models.InlineKeyboardButton, 0, plan.ComboDays)
		for i := 0; i <= selected && i < plan.ComboDays; i++ {
			label := strconv.Itoa(i + 1)
			if i == sel.EditingDayIndex() {
				label = "✏️" + label
			}
			edits = append(edits, keyboard.Button(label, fmt.Sprintf("bk_edit:%d", i)))
		}
		kb.Grid(edits, 7)
	}

	if sel.Complete() {
		kb.Row(keyboard.Button("➡️ Продолжить", "bk_next"))
	}
	kb.Row(keyboard.CancelButton("bk_cancel"))

	return sb.String(), kb.Build()
}

// HandleMonth листает календарь
func HandleMonth(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	month, err := keyboard.ParseMonth(common.CallbackArg(callback.Data), h.Location)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	now := h.Now()
	lastDay := lastBookableDay(now, h.BookingService.Policy().HorizonDays)
	if month.Before(monthStart(now)) || month.After(lastDay) {
		hc.Answer("")
		return
	}

	d.Month = month
	text, kb := buildCalendarScreen(h, d)
	hc.EditMessage(text, kb)
	hc.Answer("")
}

// HandleDate делает дату активной и показывает свободное время
func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	date, err := keyboard.ParseDate(common.CallbackArg(callback.Data), h.Location)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	if !fitsHorizon(d.Selection, date, lastBookableDay(h.Now(), h.BookingService.Policy().HorizonDays)) {
		hc.AnswerAlert(common.ErrorMessage(service.ErrBeyondHorizon))
		return
	}
	if !d.Selection.SelectDate(date) {
		hc.AnswerAlert("🚫 Эту дату нельзя выбрать для этого визита")
		return
	}

	text, kb, err := buildSlotsScreen(ctx, h, d)
	if err != nil {
		common.HandleError(hc, err, "build_slots")
		return
	}
	hc.EditMessage(text, kb)
	hc.Answer("")
}

// freeSlots слоты активной даты без времени, когда пациент уже занят
func freeSlots(ctx context.Context, h *callbacktypes.Handler, d *bookingDraft) ([]scheduling.TimeSlot, error) {
	policy := h.BookingService.Policy()
	sel := d.Selection

	slots := sel.SlotsForActiveDate(d.Package.SessionDuration, policy.Window, policy.StepMinutes)
	if len(slots) == 0 {
		return nil, nil
	}

	busy, err := h.BookingService.BusyIntervals(ctx, d.Patient.ID, sel.ActiveDate())
	if err != nil {
		return nil, err
	}
	return scheduling.FilterBusy(sel.ActiveDate(), slots, busy), nil
}

// buildSlotsScreen экран выбора времени на активную дату
func buildSlotsScreen(ctx context.Context, h *callbacktypes.Handler, d *bookingDraft) (string, *models.InlineKeyboardMarkup, error) {
	slots, err := freeSlots(ctx, h, d)
	if err != nil {
		return "", nil, err
	}

	sel := d.Selection
	text := fmt.Sprintf("📅 %s\n🕐 Визит %d: выберите время начала",
		formatting.FormatDateWithWeekday(sel.ActiveDate()), sel.EditingDayIndex()+1)
	if len(slots) == 0 {
		text = fmt.Sprintf("📅 %s\n\n😔 На эту дату нет свободного времени. Выберите другой день.",
			formatting.FormatDateWithWeekday(sel.ActiveDate()))
	}

	pending := sel.PendingSlot()
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		label := slot.Display
		if pending != nil && pending.Value == slot.Value {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.Button(label, "bk_slot:"+slot.Value))
	}

	kb := keyboard.NewBuilder().Grid(buttons, 2).AddBackButton("bk_cal").Build()
	return text, kb, nil
}

// HandleBackToCalendar возвращает к календарю
func HandleBackToCalendar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	text, kb := buildCalendarScreen(h, d)
	hc.EditMessage(text, kb)
	hc.Answer("")
}

// HandleSlot фиксирует время для редактируемого визита
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	slot, err := scheduling.ParseSlotValue(common.CallbackArg(callback.Data))
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	// Слот мог устареть, пока сообщение висело в чате
	free, err := freeSlots(ctx, h, d)
	if err != nil {
		common.HandleError(hc, err, "free_slots")
		return
	}
	if !containsSlot(free, slot) {
		hc.AnswerAlert("⌛ Это время уже недоступно, выберите другое")
		text, kb, err := buildSlotsScreen(ctx, h, d)
		if err == nil {
			hc.EditMessage(text, kb)
		}
		return
	}

	if !d.Selection.SelectSlot(slot) {
		hc.AnswerAlert("🚫 Сначала выберите дату")
		return
	}

	d.Month = monthStart(d.Selection.ActiveDate())
	text, kb := buildCalendarScreen(h, d)
	hc.EditMessage(text, kb)
	hc.Answer("✅ " + slot.Display)
}

func containsSlot(slots []scheduling.TimeSlot, slot scheduling.TimeSlot) bool {
	for _, s := range slots {
		if s.Value == slot.Value {
			return true
		}
	}
	return false
}

// HandleEditDay переключает редактирование на другой визит
func HandleEditDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	index, err := strconv.Atoi(common.CallbackArg(callback.Data))
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	if !d.Selection.EditDay(index) {
		hc.AnswerAlert("🚫 Сначала выберите предыдущие визиты")
		return
	}

	d.Month = monthStart(d.Selection.ActiveDate())
	text, kb := buildCalendarScreen(h, d)
	hc.EditMessage(text, kb)
	hc.Answer(fmt.Sprintf("Визит %d", index+1))
}

// sessionIntervals интервалы выбранных визитов
func sessionIntervals(d *bookingDraft) []scheduling.Interval {
	selected := d.Selection.SelectedDates()
	intervals := make([]scheduling.Interval, 0, len(selected))
	duration := time.Duration(d.Package.SessionDuration) * time.Minute
	for _, s := range selected {
		start := s.StartsAt()
		intervals = append(intervals, scheduling.Interval{Start: start, End: start.Add(duration)})
	}
	return intervals
}

// HandleNext показывает свободных медсестёр на все выбранные визиты
func HandleNext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	if !d.Selection.Complete() {
		hc.AnswerAlert("🚫 Выберите время для всех визитов")
		return
	}

	nurses, err := h.StaffService.AvailableNurses(ctx, sessionIntervals(d))
	if err != nil {
		common.HandleError(hc, err, "available_nurses")
		return
	}

	kb := keyboard.NewBuilder()
	for _, n := range nurses {
		kb.Row(keyboard.Button("👩‍⚕️ "+n.DisplayName(), fmt.Sprintf("bk_nurse:%d", n.ID)))
	}
	kb.Row(keyboard.Button("🎲 Любая свободная (назначит менеджер)", "bk_nurse:0"))
	kb.AddBackButton("bk_cal")

	text := "👩‍⚕️ Выберите медсестру\n\nВ списке только те, кто свободен во все выбранные визиты."
	if len(nurses) == 0 {
		text = "👩‍⚕️ Сейчас нет медсестры, свободной во все выбранные визиты.\nМенеджер назначит её после записи."
	}

	hc.EditMessage(text, kb.Build())
	hc.Answer("")
}

// HandleNurse запоминает медсестру и показывает итог записи
func HandleNurse(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	nurseID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	d, unlock, err := loadDraft(hc)
	if err != nil || d.Selection == nil || !d.Selection.Complete() {
		hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
		return
	}
	defer unlock()

	var nurse *model.User
	d.NurseID = nil
	if nurseID > 0 {
		nurse, err = h.UserService.GetByID(ctx, nurseID)
		if err != nil {
			common.HandleError(hc, err, "get_nurse")
			return
		}
		if nurse == nil || nurse.Role != model.RoleNurse {
			hc.AnswerAlert(common.ErrorMessage(service.ErrNurseNotFound))
			return
		}
		d.NurseID = &nurse.ID
	}

	var sb strings.Builder
	sb.WriteString("📝 <b>Проверьте запись</b>\n\n")
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(d.Patient.FullName))
	if d.Patient.Address != "" {
		fmt.Fprintf(&sb, "🏠 %s\n", html.EscapeString(d.Patient.Address))
	}
	fmt.Fprintf(&sb, "📦 %s\n", html.EscapeString(d.Package.Name))
	fmt.Fprintf(&sb, "💰 %s\n", formatting.FormatPriceShort(d.Package.Price))
	if nurse != nil {
		fmt.Fprintf(&sb, "👩‍⚕️ %s\n", html.EscapeString(nurse.DisplayName()))
	} else {
		sb.WriteString("👩‍⚕️ назначит менеджер\n")
	}
	sb.WriteString("\n")
	for i, s := range d.Selection.SelectedDates() {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, formatting.FormatDateWithWeekday(s.Date), s.TimeSlot.Display)
	}

	kb := keyboard.NewBuilder().
		AddRows(keyboard.ConfirmCancelButtons("bk_confirm", "bk_cancel")).
		AddBackButton("bk_next").
		Build()

	hc.EditMessage(sb.String(), kb)
	hc.Answer("")
}

// HandleConfirm сохраняет визиты пакета
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		d, unlock, err := loadDraft(hc)
		if err != nil || d.Selection == nil || !d.Selection.Complete() {
			hc.AnswerAlert(common.ErrorMessage(common.ErrSessionExpired))
			return
		}
		defer unlock()

		appointments, err := h.BookingService.BookPackage(ctx, service.BookingRequest{
			OwnerID:   hc.User.ID,
			PatientID: d.Patient.ID,
			PackageID: d.Package.ID,
			NurseID:   d.NurseID,
			Sessions:  d.Selection.SelectedDates(),
		})
		if err != nil {
			if errors.Is(err, service.ErrNurseBusy) || errors.Is(err, service.ErrPatientBusy) {
				// Черновик остаётся: можно выбрать другое время или медсестру
				hc.AnswerAlert(common.ErrorMessage(err) + "\n\nИзмените время или медсестру.")
				return
			}
			common.HandleError(hc, err, "book_package")
			return
		}

		hc.ClearState()

		var sb strings.Builder
		fmt.Fprintf(&sb, "✅ <b>Запись оформлена!</b>\n\n📦 %s\n👤 %s\n\n",
			html.EscapeString(d.Package.Name), html.EscapeString(d.Patient.FullName))
		for _, a := range appointments {
			sb.WriteString(formatting.FormatAppointmentLine(a) + "\n")
		}
		if d.NurseID == nil {
			sb.WriteString("\n⏳ Менеджер назначит медсестру, вы получите уведомление.")
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📅 Мои записи", "mb_page:0")).
			Row(keyboard.Button("➕ Записаться ещё", "bk_start")).
			Build()

		hc.EditMessage(sb.String(), kb)
		hc.Answer("✅ Записано")

		if d.NurseID != nil {
			notifyNurseBooked(ctx, b, h, *d.NurseID, d, appointments)
		}
	})
}

func notifyNurseBooked(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, nurseID int64, d *bookingDraft, appointments []*model.Appointment) {
	nurse, err := h.UserService.GetByID(ctx, nurseID)
	if err != nil || nurse == nil {
		h.Logger.Warn("Nurse for notification not found", zap.Int64("nurse_id", nurseID), zap.Error(err))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🆕 <b>Новые визиты</b>\n\n📦 %s\n", html.EscapeString(d.Package.Name))
	sb.WriteString(formatting.FormatPatientInfo(d.Patient))
	sb.WriteString("\n")
	for _, a := range appointments {
		sb.WriteString(formatting.FormatAppointmentLine(a) + "\n")
	}

	common.Notify(ctx, b, h.Logger, nurse.TelegramID, sb.String(), nil)
}

// HandleCancelWizard прерывает запись
func HandleCancelWizard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.ClearState()

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🩺 Начать заново", "bk_start")).
		AddBackToMainButton().
		Build()
	hc.EditMessage("❌ Запись отменена.", kb)
	hc.Answer("")
}
