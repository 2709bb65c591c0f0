package handlers

import (
	"context"
	"errors"
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
// Patient Profile Dialog
// ========================

// patientDraft черновик профиля из состояния диалога
func (h *Handlers) patientDraft(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Patient, bool) {
	telegramID := update.Message.From.ID

	v, ok := h.stateManager.GetData(telegramID, state.KeyPatientDraft)
	p, isPatient := v.(*model.Patient)
	if !ok || !isPatient || p == nil {
		h.logger.Warn("Patient draft is missing", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrSessionExpired))
		return nil, false
	}
	return p, true
}

// handlePatientNameStep обрабатывает ввод ФИО
func (h *Handlers) handlePatientNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	p, ok := h.patientDraft(ctx, b, update)
	if !ok {
		return
	}

	if msg := checkLength("ФИО", name, PatientNameMinLength, PatientNameMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	p.FullName = name
	h.stateManager.SetState(telegramID, state.StatePatientBirthYear)

	h.logger.Info("Patient name saved, moving to birth year step",
		zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Пациент: %s\n\n"+
		"Шаг 2 из 5: год рождения\n\n"+
		"Например: 1948. Отправьте «-», чтобы пропустить.\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(name)))
}

// handlePatientBirthYearStep обрабатывает ввод года рождения
func (h *Handlers) handlePatientBirthYearStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	input := optional(update.Message.Text)

	p, ok := h.patientDraft(ctx, b, update)
	if !ok {
		return
	}

	if input != "" {
		year := h.screens.Now().Year()
		birthYear, err := parseIntInRange(input, year-120, year)
		if err != nil {
			h.logger.Debug("Invalid birth year", zap.String("input", input), zap.Error(err))
			h.sendError(ctx, b, update.Message.Chat.ID,
				fmt.Sprintf("❌ Введите год от %d до %d или «-».\n\nПопробуйте ещё раз:", year-120, year))
			return
		}
		p.BirthYear = birthYear
	}

	h.stateManager.SetState(telegramID, state.StatePatientAddress)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 3 из 5: адрес, куда приедет медсестра\n\n"+
		"Укажите город, улицу, дом, подъезд, этаж и квартиру.\n\n"+
		"Для отмены используйте /cancel")
}

// handlePatientAddressStep обрабатывает ввод адреса
func (h *Handlers) handlePatientAddressStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	address := strings.TrimSpace(update.Message.Text)

	p, ok := h.patientDraft(ctx, b, update)
	if !ok {
		return
	}

	if msg := checkLength("Адрес", address, PatientAddressMinLength, PatientAddressMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	p.Address = address
	h.stateManager.SetState(telegramID, state.StatePatientPhone)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 4 из 5: контактный телефон\n\n"+
		"Отправьте «-», чтобы пропустить.\n\n"+
		"Для отмены используйте /cancel")
}

// handlePatientPhoneStep обрабатывает ввод телефона
func (h *Handlers) handlePatientPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.patientDraft(ctx, b, update)
	if !ok {
		return
	}

	phone := optional(update.Message.Text)
	if msg := checkLength("Телефон", phone, 0, 32); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}

	p.Phone = phone
	h.stateManager.SetState(telegramID, state.StatePatientNotes)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 5 из 5: что важно знать медсестре?\n\n"+
		"Диагнозы, аллергии, подвижность, код домофона. Отправьте «-», чтобы пропустить.\n\n"+
		"Для отмены используйте /cancel")
}

// handlePatientNotesStep сохраняет профиль пациента
func (h *Handlers) handlePatientNotesStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	p, ok := h.patientDraft(ctx, b, update)
	if !ok {
		return
	}

	notes := optional(update.Message.Text)
	if msg := checkLength("Описание", notes, 0, PatientNotesMaxLength); msg != "" {
		h.sendError(ctx, b, update.Message.Chat.ID, msg)
		return
	}
	p.Notes = notes

	if err := h.patientService.CreatePatient(ctx, p); err != nil {
		h.logger.Error("Failed to create patient",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		if errors.Is(err, service.ErrInvalidPatient) {
			h.stateManager.SetState(telegramID, state.StatePatientName)
			h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err)+"\n\nНачнём заново. Шаг 1 из 5: ФИО пациента")
			return
		}
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(telegramID)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📅 Записать на визит", fmt.Sprintf("bk_patient:%d", p.ID))).
		Row(keyboard.Button("👥 Мои пациенты", "pt_list")).
		Build()

	h.sendScreen(ctx, b, update.Message.Chat.ID, "✅ <b>Профиль пациента сохранён</b>\n\n"+formatting.FormatPatientInfo(p), kb)
}
