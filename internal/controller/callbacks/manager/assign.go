package manager

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Nurse Assignment Handlers
// ========================

const unassignedPerPage = 8

// BuildAssignScreen предстоящие визиты без медсестры
func BuildAssignScreen(ctx context.Context, h *callbacktypes.Handler, page int) (string, *models.InlineKeyboardMarkup, error) {
	appointments, err := h.StaffService.ListUnassigned(ctx)
	if err != nil {
		return "", nil, err
	}

	if len(appointments) == 0 {
		kb := keyboard.NewBuilder().AddBackToMainButton().Build()
		return "👩‍⚕️ Все предстоящие визиты распределены.", kb, nil
	}

	from, to, pages := keyboard.Page(len(appointments), page, unassignedPerPage)

	kb := keyboard.NewBuilder()
	for _, a := range appointments[from:to] {
		label := formatting.FormatAppointmentLine(a)
		if a.Patient != nil {
			label += " · " + a.Patient.FullName
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("as_view:%d", a.ID)))
	}
	kb.AddPagination("as_page:", from/unassignedPerPage, pages)
	kb.AddBackToMainButton()

	text := fmt.Sprintf("👩‍⚕️ <b>Назначение медсестёр</b>\n\nБез медсестры: %d %s",
		len(appointments), formatting.PluralizeVisits(len(appointments)))
	return text, kb.Build(), nil
}

// HandleAssignPage страница визитов без медсестры
func HandleAssignPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			page = 0
		}

		text, kb, err := BuildAssignScreen(ctx, h, int(page))
		if err != nil {
			common.HandleError(hc, err, "list_unassigned")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandleAssignView визит и свободные на его время медсёстры
func HandleAssignView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		a, err := h.BookingService.GetAppointment(ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_appointment")
			return
		}

		nurses, err := h.StaffService.AvailableNurses(ctx, []scheduling.Interval{{Start: a.EstDate, End: a.EndsAt()}})
		if err != nil {
			common.HandleError(hc, err, "available_nurses")
			return
		}

		kb := keyboard.NewBuilder()
		for _, n := range nurses {
			kb.Row(keyboard.Button("👩‍⚕️ "+n.DisplayName(), fmt.Sprintf("as_pick:%d:%d", a.ID, n.ID)))
		}
		kb.AddBackButton("as_page:0")

		text := formatting.FormatAppointmentInfo(a, nil)
		if len(nurses) == 0 {
			text += "\n\n😔 Нет медсестёр, свободных в это время."
		} else {
			text += "\n\nСвободны в это время:"
		}

		hc.EditMessage(text, kb.Build())
		hc.Answer("")
	})
}

// HandleAssignPick для серии спрашивает, назначать ли на все оставшиеся визиты
func HandleAssignPick(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ids, err := common.ParseIDsFromCallback(callback.Data, 2)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		appointmentID, nurseID := ids[0], ids[1]

		a, err := h.BookingService.GetAppointment(ctx, appointmentID)
		if err != nil {
			common.HandleError(hc, err, "get_appointment")
			return
		}

		if a.Package == nil || !a.Package.IsMultiDay() {
			assign(hc, appointmentID, nurseID, false)
			return
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("1️⃣ Только этот визит", fmt.Sprintf("as_one:%d:%d", appointmentID, nurseID))).
			Row(keyboard.Button("🔁 Все оставшиеся визиты пакета", fmt.Sprintf("as_all:%d:%d", appointmentID, nurseID))).
			AddBackButton(fmt.Sprintf("as_view:%d", appointmentID)).
			Build()
		hc.EditMessage(formatting.FormatAppointmentInfo(a, nil)+"\n\nНазначить медсестру:", kb)
		hc.Answer("")
	})
}

// HandleAssignOne назначает медсестру на один визит
func HandleAssignOne(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	handleAssign(ctx, b, callback, h, false)
}

// HandleAssignAll назначает медсестру на все оставшиеся визиты пакета
func HandleAssignAll(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	handleAssign(ctx, b, callback, h, true)
}

func handleAssign(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, group bool) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ids, err := common.ParseIDsFromCallback(callback.Data, 2)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		assign(hc, ids[0], ids[1], group)
	})
}

func assign(hc *common.HandlerContext, appointmentID, nurseID int64, group bool) {
	h := hc.Handler

	var (
		assigned []*model.Appointment
		err      error
	)
	if group {
		assigned, err = h.StaffService.AssignGroup(hc.Ctx, hc.User, appointmentID, nurseID)
	} else {
		var a *model.Appointment
		a, err = h.StaffService.AssignNurse(hc.Ctx, hc.User, appointmentID, nurseID)
		assigned = []*model.Appointment{a}
	}
	if err != nil {
		common.HandleError(hc, err, "assign_nurse")
		return
	}

	nurse, err := h.UserService.GetByID(hc.Ctx, nurseID)
	if err != nil || nurse == nil {
		common.HandleError(hc, common.ErrUserNotFound, "get_nurse")
		return
	}

	var lines strings.Builder
	for _, a := range assigned {
		lines.WriteString(formatting.FormatAppointmentLine(a) + "\n")
	}

	kb := keyboard.NewBuilder().Row(keyboard.Button("⬅️ К списку", "as_page:0")).Build()
	hc.EditMessage(fmt.Sprintf("✅ %s назначена:\n\n%s", html.EscapeString(nurse.DisplayName()), lines.String()), kb)
	hc.Answer("Назначено")

	notifyAssigned(hc, nurse, assigned, lines.String())
}

// notifyAssigned сообщает медсестре о новых визитах и клиенту о назначенной медсестре
func notifyAssigned(hc *common.HandlerContext, nurse *model.User, assigned []*model.Appointment, lines string) {
	h := hc.Handler
	if len(assigned) == 0 {
		return
	}

	// Пакет и пациент нужны для текста: AssignNurse их не подгружает
	first, err := h.BookingService.GetAppointment(hc.Ctx, assigned[0].ID)
	if err != nil {
		first = assigned[0]
	}

	var nurseText strings.Builder
	nurseText.WriteString("🆕 <b>Вам назначены визиты</b>\n\n")
	if first.Package != nil {
		fmt.Fprintf(&nurseText, "📦 %s\n", html.EscapeString(first.Package.Name))
	}
	if first.Patient != nil {
		nurseText.WriteString(formatting.FormatPatientInfo(first.Patient))
	}
	nurseText.WriteString("\n" + lines)
	common.Notify(hc.Ctx, hc.Bot, h.Logger, nurse.TelegramID, nurseText.String(), nil)

	if first.Patient == nil {
		return
	}
	owner, err := h.UserService.GetByID(hc.Ctx, first.Patient.OwnerID)
	if err != nil || owner == nil {
		return
	}
	clientText := fmt.Sprintf("👩‍⚕️ К пациенту %s назначена медсестра %s\n\n%s",
		html.EscapeString(first.Patient.FullName), html.EscapeString(nurse.DisplayName()), lines)
	common.Notify(hc.Ctx, hc.Bot, h.Logger, owner.TelegramID, clientText, nil)
}
