package client

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
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const bookingsPerPage = 8

// BuildMyBookingsScreen список предстоящих визитов пациентов пользователя
func BuildMyBookingsScreen(ctx context.Context, h *callbacktypes.Handler, user *model.User, page int) (string, *models.InlineKeyboardMarkup, error) {
	appointments, err := h.BookingService.ListByOwner(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	if len(appointments) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🩺 Записаться", "bk_start")).
			Build()
		return "📅 У вас нет предстоящих визитов.", kb, nil
	}

	from, to, pages := keyboard.Page(len(appointments), page, bookingsPerPage)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 <b>Мои записи</b>: %d %s\n\n", len(appointments), formatting.PluralizeVisits(len(appointments)))

	kb := keyboard.NewBuilder()
	for _, a := range appointments[from:to] {
		label := formatting.FormatAppointmentLine(a)
		if a.Patient != nil {
			label = fmt.Sprintf("%s · %s", label, a.Patient.FullName)
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("mb_view:%d", a.ID)))
	}
	kb.AddPagination("mb_page:", from/bookingsPerPage, pages)
	kb.AddBackToMainButton()

	sb.WriteString("Нажмите на визит, чтобы посмотреть детали или отменить.")
	return sb.String(), kb.Build(), nil
}

// HandleMyBookingsPage показывает страницу записей
func HandleMyBookingsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			page = 0
		}

		text, kb, err := BuildMyBookingsScreen(ctx, h, hc.User, int(page))
		if err != nil {
			common.HandleError(hc, err, "my_bookings")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandleViewBooking показывает визит с кнопками отмены
func HandleViewBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		a, ok := loadOwnAppointment(hc)
		if !ok {
			return
		}

		var nurse *model.User
		if a.NursingID != nil {
			nurse, _ = h.UserService.GetByID(ctx, *a.NursingID)
		}

		kb := keyboard.NewBuilder()
		if a.Status.IsActive() && a.EstDate.After(h.Now()) {
			kb.Row(keyboard.Button("❌ Отменить визит", fmt.Sprintf("mb_cancel:%d", a.ID)))
			if a.Package != nil && a.Package.IsMultiDay() {
				kb.Row(keyboard.Button("🗑 Отменить все оставшиеся визиты", fmt.Sprintf("mb_cancel_all:%d", a.ID)))
			}
		}
		kb.AddBackButton("mb_page:0")

		hc.EditMessage(formatting.FormatAppointmentInfo(a, nurse), kb.Build())
		hc.Answer("")
	})
}

// loadOwnAppointment загружает визит из callback и проверяет, что он принадлежит пользователю
func loadOwnAppointment(hc *common.HandlerContext) (*model.Appointment, bool) {
	id, err := common.ParseIDFromCallback(hc.Callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
		return nil, false
	}

	a, err := hc.Handler.BookingService.GetAppointment(hc.Ctx, id)
	if err != nil {
		common.HandleError(hc, err, "get_appointment")
		return nil, false
	}
	if !hc.User.Role.CanManage() && (a.Patient == nil || a.Patient.OwnerID != hc.User.ID) {
		hc.AnswerAlert(common.ErrorMessage(common.ErrNotManager))
		return nil, false
	}
	return a, true
}

// HandleCancelBooking спрашивает подтверждение отмены одного визита
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		a, ok := loadOwnAppointment(hc)
		if !ok {
			return
		}

		kb := keyboard.NewBuilder().
			AddRows(keyboard.YesNoButtons(fmt.Sprintf("mb_cancel_ok:%d", a.ID), fmt.Sprintf("mb_view:%d", a.ID))).
			Build()
		hc.EditMessage(fmt.Sprintf("❓ Отменить визит %s?", formatting.FormatAppointmentLine(a)), kb)
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет один визит
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		a, err := h.BookingService.CancelAppointment(ctx, hc.User, id)
		if err != nil {
			common.HandleError(hc, err, "cancel_appointment")
			return
		}

		kb := keyboard.NewBuilder().Row(keyboard.Button("📅 Мои записи", "mb_page:0")).Build()
		hc.EditMessage("✅ Визит отменён.\n\n"+formatting.FormatAppointmentLine(a), kb)
		hc.Answer("Отменено")

		notifyNurseCanceled(ctx, b, h, a, 1)
	})
}

// HandleCancelGroup спрашивает подтверждение отмены оставшихся визитов пакета
func HandleCancelGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		a, ok := loadOwnAppointment(hc)
		if !ok {
			return
		}

		kb := keyboard.NewBuilder().
			AddRows(keyboard.YesNoButtons(fmt.Sprintf("mb_cancel_all_ok:%d", a.ID), fmt.Sprintf("mb_view:%d", a.ID))).
			Build()
		name := ""
		if a.Package != nil {
			name = html.EscapeString(a.Package.Name)
		}
		hc.EditMessage(fmt.Sprintf("❓ Отменить все предстоящие визиты пакета «%s»?", name), kb)
		hc.Answer("")
	})
}

// HandleConfirmCancelGroup отменяет все предстоящие визиты пакета
func HandleConfirmCancelGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
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

		canceled, err := h.BookingService.CancelGroup(ctx, hc.User, id)
		if err != nil {
			common.HandleError(hc, err, "cancel_group")
			return
		}

		h.Logger.Info("Client canceled package",
			zap.Int64("user_id", hc.User.ID),
			zap.Int64("appointment_id", id),
			zap.Int64("canceled", canceled))

		kb := keyboard.NewBuilder().Row(keyboard.Button("📅 Мои записи", "mb_page:0")).Build()
		hc.EditMessage(fmt.Sprintf("✅ Отменено %d %s.", canceled, formatting.PluralizeVisits(int(canceled))), kb)
		hc.Answer("Отменено")

		notifyNurseCanceled(ctx, b, h, a, int(canceled))
	})
}

func notifyNurseCanceled(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, a *model.Appointment, count int) {
	if a.NursingID == nil {
		return
	}
	nurse, err := h.UserService.GetByID(ctx, *a.NursingID)
	if err != nil || nurse == nil {
		return
	}

	text := fmt.Sprintf("❌ Клиент отменил визит %s", formatting.FormatAppointmentLine(a))
	if count > 1 {
		text = fmt.Sprintf("❌ Клиент отменил %d %s пакета, начиная с %s",
			count, formatting.PluralizeVisits(count), formatting.FormatDateTime(a.EstDate))
	}
	if a.Patient != nil {
		text += "\n👤 " + html.EscapeString(a.Patient.FullName)
	}
	common.Notify(ctx, b, h.Logger, nurse.TelegramID, text, nil)
}
