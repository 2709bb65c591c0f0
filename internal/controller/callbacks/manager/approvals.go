package manager

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Report Approval Handlers
// ========================

// BuildApprovalsScreen отчёты, ожидающие проверки
func BuildApprovalsScreen(ctx context.Context, h *callbacktypes.Handler, manager *model.User) (string, *models.InlineKeyboardMarkup, error) {
	reports, err := h.ReportService.ListPending(ctx, manager)
	if err != nil {
		return "", nil, err
	}

	if len(reports) == 0 {
		kb := keyboard.NewBuilder().AddBackToMainButton().Build()
		return "✅ Нет отчётов на проверке.", kb, nil
	}

	kb := keyboard.NewBuilder()
	for _, r := range reports {
		label := fmt.Sprintf("📝 Отчёт #%d · визит #%d · %s", r.ID, r.AppointmentID, formatting.FormatDate(r.CreatedAt))
		kb.Row(keyboard.Button(label, fmt.Sprintf("ap_view:%d", r.ID)))
	}
	kb.AddBackToMainButton()

	text := fmt.Sprintf("📋 <b>Отчёты на проверке</b>\n\nОжидают решения: %d %s",
		len(reports), formatting.PluralizeReports(len(reports)))
	return text, kb.Build(), nil
}

// HandleApprovals список отчётов на проверке
func HandleApprovals(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		text, kb, err := BuildApprovalsScreen(ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "list_pending_reports")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// reportDetails подгружает визит и медсестру для отчёта
func reportDetails(hc *common.HandlerContext, r *model.MedicalReport) (*model.Appointment, *model.User) {
	h := hc.Handler

	a, err := h.BookingService.GetAppointment(hc.Ctx, r.AppointmentID)
	if err != nil {
		h.Logger.Warn("Failed to load appointment for report",
			zap.Int64("report_id", r.ID),
			zap.Error(err))
		a = nil
	}
	nurse, err := h.UserService.GetByID(hc.Ctx, r.NurseID)
	if err != nil {
		nurse = nil
	}
	return a, nurse
}

// HandleApprovalView показывает отчёт с кнопками решения
func HandleApprovalView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		r, err := h.ReportService.Get(ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_report")
			return
		}
		a, nurse := reportDetails(hc, r)

		kb := keyboard.NewBuilder()
		if r.IsPending() {
			kb.Row(
				keyboard.Button("✅ Одобрить", fmt.Sprintf("ap_ok:%d", r.ID)),
				keyboard.Button("↩️ Вернуть", fmt.Sprintf("ap_no:%d", r.ID)),
			)
		}
		kb.AddBackButton("ap_list")

		hc.EditMessage(formatting.FormatReport(r, a, nurse), kb.Build())
		hc.Answer("")
	})
}

// HandleApprove одобряет отчёт
func HandleApprove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		r, err := h.ReportService.Approve(ctx, hc.User, id)
		if err != nil {
			common.HandleError(hc, err, "approve_report")
			return
		}

		common.LogAndAnswer(hc, "Report approved", "✅ Отчёт одобрен")

		text, kb, err := BuildApprovalsScreen(ctx, h, hc.User)
		if err == nil {
			hc.EditMessage(text, kb)
		}

		a, nurse := reportDetails(hc, r)
		if nurse != nil {
			msg := fmt.Sprintf("✅ Отчёт #%d одобрен", r.ID)
			if a != nil {
				msg += "\n\n" + formatting.FormatAppointmentLine(a)
			}
			common.Notify(ctx, b, h.Logger, nurse.TelegramID, msg, nil)
		}
	})
}

// HandleReject запрашивает комментарий для возврата отчёта
func HandleReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		r, err := h.ReportService.Get(ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_report")
			return
		}
		if !r.IsPending() {
			hc.AnswerAlert("⚠️ Отчёт уже проверен")
			return
		}

		hc.ClearState()
		hc.EnterState(state.StateRejectComment)
		hc.SetData(state.KeyReport, r.ID)

		hc.EditMessage(fmt.Sprintf("↩️ <b>Возврат отчёта #%d</b>\n\n"+
			"Напишите, что нужно исправить. Комментарий получит медсестра.\n\n"+
			"Для отмены используйте /cancel", r.ID), nil)
		hc.Answer("")
	})
}
