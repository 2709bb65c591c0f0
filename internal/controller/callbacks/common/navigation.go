package common

import (
	"context"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Common Navigation Handlers
// ========================

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithUser(ctx, b, callback, h, func(hc *HandlerContext) {
		// Очищаем состояние пользователя
		hc.ClearState()

		if err := hc.EditMessage(MainMenuText(hc.User), nil); err != nil {
			_ = hc.SendMessage(MainMenuText(hc.User), nil)
		}
		hc.Answer("Главное меню")
	})
}

// HandleNoop отвечает на нажатие декоративной кнопки
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")
}
