package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Здравствуйте, %s!\n\n"+
			"Это бот патронажной службы: здесь можно записать близкого на визит медсестры на дому, "+
			"выбрать удобные даты и время и следить за записями.\n\n",
		html.EscapeString(registeredUser.DisplayName()),
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText+common.MainMenuText(registeredUser))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	helpText := "📚 <b>Справка</b>\n\n" +
		"1. Добавьте пациента: /patients\n" +
		"2. Выберите услугу: /book\n" +
		"3. Отметьте даты в календаре. Для пакетов из нескольких визитов бот подсветит подходящие дни.\n" +
		"4. Выберите время и подтвердите запись.\n\n" +
		"Отменить запись можно в /mybookings.\n\n"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText+common.MainMenuText(user))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	// Очищаем состояние
	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers, сюда попадают только неизвестные
	if strings.HasPrefix(update.Message.Text, "/") {
		if !isKnownCommand(update.Message.Text) {
			h.HandleUnknownCommand(ctx, b, update)
		}
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	// Если нет активного состояния, игнорируем
	if currentState == state.StateNone {
		return
	}

	switch currentState {
	// Профиль пациента
	case state.StatePatientName:
		h.handlePatientNameStep(ctx, b, update)
	case state.StatePatientBirthYear:
		h.handlePatientBirthYearStep(ctx, b, update)
	case state.StatePatientAddress:
		h.handlePatientAddressStep(ctx, b, update)
	case state.StatePatientPhone:
		h.handlePatientPhoneStep(ctx, b, update)
	case state.StatePatientNotes:
		h.handlePatientNotesStep(ctx, b, update)

	// Каталог
	case state.StateCategoryName:
		h.handleCategoryNameStep(ctx, b, update)
	case state.StateCategoryDescription:
		h.handleCategoryDescriptionStep(ctx, b, update)
	case state.StatePackageName:
		h.handlePackageNameStep(ctx, b, update)
	case state.StatePackageDescription:
		h.handlePackageDescriptionStep(ctx, b, update)
	case state.StatePackagePrice:
		h.handlePackagePriceStep(ctx, b, update)
	case state.StatePackageDuration:
		h.handlePackageDurationStep(ctx, b, update)
	case state.StatePackageComboDays:
		h.handlePackageComboDaysStep(ctx, b, update)
	case state.StatePackageTimeInterval:
		h.handlePackageTimeIntervalStep(ctx, b, update)

	// Отчёты
	case state.StateReportContent:
		h.handleReportContentStep(ctx, b, update)
	case state.StateRejectComment:
		h.handleRejectCommentStep(ctx, b, update)

	case state.StateBookingSchedule:
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"📅 Даты и время выбираются кнопками под календарём.\n\nДля отмены используйте /cancel")

	default:
		h.logger.Warn("Unknown state",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
