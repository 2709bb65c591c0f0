package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// screenBuilder строит текст и клавиатуру экрана
type screenBuilder func() (string, *models.InlineKeyboardMarkup, error)

// showScreen отправляет экран, построенный теми же функциями, что и callbacks
func (h *Handlers) showScreen(ctx context.Context, b *bot.Bot, update *models.Update, operation string, build screenBuilder) {
	text, kb, err := build()
	if err != nil {
		h.logger.Error("Failed to build screen",
			zap.String("operation", operation),
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleBook обрабатывает команду /book
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(user.TelegramID)

	h.showScreen(ctx, b, update, "book_start", func() (string, *models.InlineKeyboardMarkup, error) {
		return client.BuildBookStartScreen(ctx, h.screens, user)
	})
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.showScreen(ctx, b, update, "my_bookings", func() (string, *models.InlineKeyboardMarkup, error) {
		return client.BuildMyBookingsScreen(ctx, h.screens, user, 0)
	})
}

// HandlePatients обрабатывает команду /patients
func (h *Handlers) HandlePatients(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(user.TelegramID)

	h.showScreen(ctx, b, update, "list_patients", func() (string, *models.InlineKeyboardMarkup, error) {
		return client.BuildPatientsScreen(ctx, h.screens, user)
	})
}

// HandleUnknownCommand подсказывает список команд
func (h *Handlers) HandleUnknownCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	kb := keyboard.NewBuilder().AddBackToMainButton().Build()
	h.sendScreen(ctx, b, update.Message.Chat.ID, "🤔 Неизвестная команда. Список команд: /help", kb)
}
