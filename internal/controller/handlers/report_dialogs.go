package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Report Dialogs
// ========================

// int64Data достаёт идентификатор из данных диалога
func (h *Handlers) int64Data(telegramID int64, key string) (int64, bool) {
	v, ok := h.stateManager.GetData(telegramID, key)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// handleReportContentStep сохраняет отчёт медсестры о визите
func (h *Handlers) handleReportContentStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	content := strings.TrimSpace(update.Message.Text)

	appointmentID, ok := h.int64Data(telegramID, state.KeyAppointment)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrSessionExpired))
		return
	}

	if msg := checkLength("Отчёт", content, ReportMinLength, ReportMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	report, err := h.reportService.Submit(ctx, user, appointmentID, content)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.logger.Error("Failed to submit report",
			zap.Int64("appointment_id", appointmentID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder().Row(keyboard.Button("📝 К отчётам", "rp_list")).Build()
	h.sendScreen(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Отчёт #%d отправлен на проверку", report.ID), kb)
}

// handleRejectCommentStep возвращает отчёт медсестре с комментарием
func (h *Handlers) handleRejectCommentStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	comment := strings.TrimSpace(update.Message.Text)

	reportID, ok := h.int64Data(telegramID, state.KeyReport)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrSessionExpired))
		return
	}

	if msg := checkLength("Комментарий", comment, RejectCommentMinLength, RejectCommentMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	report, err := h.reportService.Reject(ctx, user, reportID, comment)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.logger.Error("Failed to reject report",
			zap.Int64("report_id", reportID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder().Row(keyboard.Button("📋 К проверке", "ap_list")).Build()
	h.sendScreen(ctx, b, update.Message.Chat.ID, fmt.Sprintf("↩️ Отчёт #%d возвращён медсестре", report.ID), kb)

	nurse, err := h.userService.GetByID(ctx, report.NurseID)
	if err != nil || nurse == nil {
		h.logger.Warn("Nurse not found for rejected report", zap.Int64("report_id", report.ID))
		return
	}

	nurseKb := keyboard.NewBuilder().
		Row(keyboard.Button("✏️ Переписать отчёт", fmt.Sprintf("rp_new:%d", report.AppointmentID))).
		Build()
	common.Notify(ctx, b, h.logger, nurse.TelegramID, fmt.Sprintf(
		"↩️ <b>Отчёт #%d возвращён</b>\n\n💬 %s", report.ID, html.EscapeString(comment)), nurseKb)
}
