package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Notify отправляет уведомление другому пользователю. Ошибка только логируется:
// пользователь мог заблокировать бота.
func Notify(ctx context.Context, b *bot.Bot, logger *zap.Logger, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	if chatID == 0 {
		return
	}

	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		logger.Warn("Failed to send notification",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
