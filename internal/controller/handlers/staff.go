package handlers

import (
	"context"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/staff"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMySchedule обрабатывает команду /myschedule
func (h *Handlers) HandleMySchedule(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}
	h.sendWeek(ctx, b, update, user, staff.ScopeMine)
}

// sendWeek рисует текущую неделю и отправляет картинку
func (h *Handlers) sendWeek(ctx context.Context, b *bot.Bot, update *models.Update, user *model.User, scope staff.Scope) {
	h.logger.Info("Rendering week schedule",
		zap.Int64("user_id", user.ID),
		zap.String("scope", string(scope)))

	screen, err := staff.BuildWeekScreen(ctx, h.screens, user, scope, 0)
	if err != nil {
		h.logger.Error("Failed to build week schedule", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	h.sendPhoto(ctx, b, update.Message.Chat.ID, screen.PNG, screen.Filename, screen.Caption, screen.Keyboard)
}

// HandleReports обрабатывает команду /reports
func (h *Handlers) HandleReports(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	h.showScreen(ctx, b, update, "list_reports", func() (string, *models.InlineKeyboardMarkup, error) {
		return staff.BuildReportsScreen(ctx, h.screens, user)
	})
}
