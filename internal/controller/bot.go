package controller

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/handlers"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cmdHandlers *handlers.Handlers,
	callbackHandler *callbacks.Handler,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды клиента
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/patients", bot.MatchTypeExact, c.handlers.HandlePatients)

	// Команды персонала
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myschedule", bot.MatchTypeExact, c.handlers.HandleMySchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reports", bot.MatchTypeExact, c.handlers.HandleReports)

	// Команды менеджера
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/catalog", bot.MatchTypeExact, c.handlers.HandleCatalog)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/assign", bot.MatchTypeExact, c.handlers.HandleAssign)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/approvals", bot.MatchTypeExact, c.handlers.HandleApprovals)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedule", bot.MatchTypeExact, c.handlers.HandleSchedule)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setrole", bot.MatchTypePrefix, c.handlers.HandleSetRole)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := make([]models.BotCommand, 0, len(handlers.Commands))
	for _, cmd := range handlers.Commands {
		commands = append(commands, models.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// NotifyReminder отправляет напоминание о завтрашнем визите клиенту и медсестре
func (c *BotController) NotifyReminder(ctx context.Context, r service.Reminder) error {
	a := r.Appointment
	if a == nil {
		return nil
	}

	details := formatting.FormatAppointmentLine(a)
	if a.Package != nil {
		details += "\n📦 " + html.EscapeString(a.Package.Name)
	}

	var errs []error

	if r.ClientTelegramID != 0 {
		var sb strings.Builder
		sb.WriteString("🔔 <b>Напоминание о визите</b>\n\n")
		sb.WriteString(details)
		if a.Patient != nil {
			fmt.Fprintf(&sb, "\n👤 %s", html.EscapeString(a.Patient.FullName))
		}
		if r.NurseTelegramID == 0 {
			sb.WriteString("\n\n⏳ Медсестра будет назначена до начала визита.")
		}
		errs = append(errs, c.send(ctx, r.ClientTelegramID, sb.String()))
	}

	if r.NurseTelegramID != 0 {
		var sb strings.Builder
		sb.WriteString("🔔 <b>Завтра визит</b>\n\n")
		sb.WriteString(details)
		if a.Patient != nil {
			sb.WriteString("\n\n" + formatting.FormatPatientInfo(a.Patient))
		}
		errs = append(errs, c.send(ctx, r.NurseTelegramID, sb.String()))
	}

	return errors.Join(errs...)
}

func (c *BotController) send(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}
