package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Category Dialog
// ========================

// handleCategoryNameStep обрабатывает ввод названия категории
func (h *Handlers) handleCategoryNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	if msg := checkLength("Название", name, CategoryNameMinLength, CategoryNameMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	h.stateManager.SetData(telegramID, state.KeyCategoryName, name)
	h.stateManager.SetState(telegramID, state.StateCategoryDescription)

	h.logger.Info("Category name saved, moving to description step",
		zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Название: %s\n\n"+
		"Шаг 2 из 2: краткое описание категории\n\n"+
		"Отправьте «-», чтобы пропустить.\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(name)))
}

// handleCategoryDescriptionStep создаёт категорию
func (h *Handlers) handleCategoryDescriptionStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID

	description := optional(update.Message.Text)
	if msg := checkLength("Описание", description, 0, CategoryDescriptionMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	v, _ := h.stateManager.GetData(telegramID, state.KeyCategoryName)
	name, _ := v.(string)
	if name == "" {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrSessionExpired))
		return
	}

	category, err := h.catalogService.CreateCategory(ctx, user, name, description)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.logger.Error("Failed to create category", zap.Error(err))
		h.sendScreen(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err), backToCatalogKeyboard())
		return
	}

	text, kb := common.BuildCategoryScreen(category, nil)
	h.sendScreen(ctx, b, update.Message.Chat.ID, "✅ Категория создана\n\n"+text, kb)
}

// ========================
// Package Dialog
// ========================

// packageDraft черновик пакета из состояния диалога
func (h *Handlers) packageDraft(ctx context.Context, b *bot.Bot, update *models.Update) (*model.ServicePackage, bool) {
	telegramID := update.Message.From.ID

	v, ok := h.stateManager.GetData(telegramID, state.KeyPackageDraft)
	p, isPackage := v.(*model.ServicePackage)
	if !ok || !isPackage || p == nil {
		h.logger.Warn("Package draft is missing", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrSessionExpired))
		return nil, false
	}
	return p, true
}

// handlePackageNameStep обрабатывает ввод названия пакета
func (h *Handlers) handlePackageNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	if msg := checkLength("Название", name, PackageNameMinLength, PackageNameMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	p.Name = name
	h.stateManager.SetState(telegramID, state.StatePackageDescription)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Название: %s\n\n"+
		"Шаг 2 из 6: что входит в услугу?\n\n"+
		"Отправьте «-», чтобы пропустить.\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(name)))
}

// handlePackageDescriptionStep обрабатывает ввод описания пакета
func (h *Handlers) handlePackageDescriptionStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	description := optional(update.Message.Text)
	if msg := checkLength("Описание", description, 0, PackageDescriptionMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	p.Description = description
	h.stateManager.SetState(telegramID, state.StatePackagePrice)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 3 из 6: стоимость всего пакета в рублях\n\n"+
		"Например: 2500 или 1999,50\n\n"+
		"Для отмены используйте /cancel")
}

// handlePackagePriceStep обрабатывает ввод цены
func (h *Handlers) handlePackagePriceStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	price, err := parsePriceRubles(update.Message.Text, PackageMaxPrice)
	if err != nil {
		h.logger.Debug("Invalid price", zap.String("input", update.Message.Text), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Введите цену от 0 до %d рублей.\n\nПопробуйте ещё раз:", PackageMaxPrice))
		return
	}

	p.Price = price
	h.stateManager.SetState(telegramID, state.StatePackageDuration)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Цена: %s\n\n"+
		"Шаг 4 из 6: длительность одного визита в минутах\n\n"+
		"От %d до %d минут.\n\n"+
		"Для отмены используйте /cancel",
		formatting.FormatPrice(price), service.MinSessionDuration, service.MaxSessionDuration))
}

// handlePackageDurationStep обрабатывает ввод длительности визита
func (h *Handlers) handlePackageDurationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	duration, err := parseIntInRange(update.Message.Text, service.MinSessionDuration, service.MaxSessionDuration)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Длительность должна быть от %d до %d минут.\n\nПопробуйте ещё раз:",
				service.MinSessionDuration, service.MaxSessionDuration))
		return
	}

	p.SessionDuration = duration
	h.stateManager.SetState(telegramID, state.StatePackageComboDays)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Визит: %s\n\n"+
		"Шаг 5 из 6: сколько визитов в пакете?\n\n"+
		"1 - разовый визит, максимум %d.\n\n"+
		"Для отмены используйте /cancel",
		formatting.FormatDuration(duration), PackageMaxComboDays))
}

// handlePackageComboDaysStep обрабатывает ввод количества визитов
func (h *Handlers) handlePackageComboDaysStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	comboDays, err := parseIntInRange(update.Message.Text, 1, PackageMaxComboDays)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Введите число от 1 до %d.\n\nПопробуйте ещё раз:", PackageMaxComboDays))
		return
	}

	p.ComboDays = comboDays
	if comboDays == 1 {
		// для разового визита интервал не нужен
		p.TimeInterval = 0
		h.createPackage(ctx, b, update, p)
		return
	}

	h.stateManager.SetState(telegramID, state.StatePackageTimeInterval)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ %d %s\n\n"+
		"Шаг 6 из 6: сколько дней пропускать между визитами?\n\n"+
		"0 - клиент сам выбирает любые даты по порядку.\n"+
		"1 - через день, 2 - каждый третий день и т.д.\n\n"+
		"Для отмены используйте /cancel",
		comboDays, formatting.PluralizeVisits(comboDays)))
}

// handlePackageTimeIntervalStep обрабатывает ввод интервала и создаёт пакет
func (h *Handlers) handlePackageTimeIntervalStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	p, ok := h.packageDraft(ctx, b, update)
	if !ok {
		return
	}

	interval, err := parseIntInRange(update.Message.Text, 0, PackageMaxTimeInterval)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Введите число от 0 до %d.\n\nПопробуйте ещё раз:", PackageMaxTimeInterval))
		return
	}

	p.TimeInterval = interval
	if err := h.catalogService.CheckSeries(p); err != nil && interval > 0 {
		p.TimeInterval = 0
		if h.catalogService.CheckSeries(p) == nil {
			h.sendError(ctx, b, update.Message.Chat.ID,
				fmt.Sprintf("❌ Серия из %d визитов с таким интервалом не помещается в горизонт записи (%d дн.).\n\nВведите интервал поменьше:",
					p.ComboDays, h.catalogService.HorizonDays()))
			return
		}
		p.TimeInterval = interval
	}
	h.createPackage(ctx, b, update, p)
}

// createPackage сохраняет пакет и показывает его карточку
func (h *Handlers) createPackage(ctx context.Context, b *bot.Bot, update *models.Update, p *model.ServicePackage) {
	telegramID := update.Message.From.ID

	user, ok := h.requireManager(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	err := h.catalogService.CreatePackage(ctx, user, p)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.logger.Error("Failed to create package",
			zap.Int64("category_id", p.CategoryID),
			zap.Error(err))
		h.sendScreen(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err), backToCatalogKeyboard())
		return
	}

	text, kb := common.BuildPackageScreen(p)
	h.sendScreen(ctx, b, update.Message.Chat.ID, "✅ Пакет создан\n\n"+text, kb)
}

// backToCatalogKeyboard кнопка возврата в каталог
func backToCatalogKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().Row(keyboard.Button("📚 Каталог", "ct_list")).Build()
}
