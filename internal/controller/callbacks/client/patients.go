package client

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
)

// BuildPatientsScreen список пациентов пользователя
func BuildPatientsScreen(ctx context.Context, h *callbacktypes.Handler, user *model.User) (string, *models.InlineKeyboardMarkup, error) {
	patients, err := h.PatientService.ListByOwner(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	kb := keyboard.NewBuilder()
	for _, p := range patients {
		kb.Row(keyboard.Button("👤 "+p.FullName, fmt.Sprintf("pt_view:%d", p.ID)))
	}
	kb.Row(keyboard.Button("➕ Добавить пациента", "pt_new"))
	kb.AddBackToMainButton()

	text := "👥 <b>Мои пациенты</b>"
	if len(patients) == 0 {
		text += "\n\nПока никого нет. Добавьте профиль, чтобы записаться на услугу."
	}
	return text, kb.Build(), nil
}

// HandlePatients показывает список пациентов
func HandlePatients(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildPatientsScreen(ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "list_patients")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandleViewPatient карточка пациента
func HandleViewPatient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		p, err := h.PatientService.GetForOwner(ctx, hc.User.ID, id)
		if err != nil {
			common.HandleError(hc, err, "view_patient")
			return
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🩺 Записать на услугу", fmt.Sprintf("bk_patient:%d", p.ID))).
			AddBackButton("pt_list").
			Build()
		hc.EditMessage(formatting.FormatPatientInfo(p), kb)
		hc.Answer("")
	})
}

// HandleNewPatient начинает диалог создания профиля пациента
func HandleNewPatient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.EnterState(state.StatePatientName)
		hc.SetData(state.KeyPatientDraft, &model.Patient{OwnerID: hc.User.ID})

		hc.EditMessage("👤 <b>Новый пациент</b>\n\n"+
			"Шаг 1 из 5: как зовут пациента? (ФИО)\n\n"+
			"Для отмены используйте /cancel", nil)
		hc.Answer("")
	})
}
