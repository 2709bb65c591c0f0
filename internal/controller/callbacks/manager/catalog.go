package manager

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ========================
// Catalog Management Handlers
// ========================

// BuildCatalogScreen все категории, включая скрытые
func BuildCatalogScreen(ctx context.Context, h *callbacktypes.Handler) (string, *models.InlineKeyboardMarkup, error) {
	categories, err := h.CatalogService.ListCategories(ctx, false)
	if err != nil {
		return "", nil, err
	}

	kb := keyboard.NewBuilder()
	for _, c := range categories {
		label := "🗂 " + c.Name
		if !c.IsActive {
			label = "⏸ " + c.Name
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("ct_cat:%d", c.ID)))
	}
	kb.Row(keyboard.Button("➕ Новая категория", "ct_cat_new"))
	kb.AddBackToMainButton()

	text := "📚 <b>Каталог услуг</b>\n\nВыберите категорию для управления пакетами."
	if len(categories) == 0 {
		text = "📚 <b>Каталог услуг</b>\n\nКаталог пуст. Создайте первую категорию."
	}
	return text, kb.Build(), nil
}

// HandleCatalog показывает каталог
func HandleCatalog(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		text, kb, err := BuildCatalogScreen(ctx, h)
		if err != nil {
			common.HandleError(hc, err, "catalog")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

func showCategory(hc *common.HandlerContext, categoryID int64) {
	h := hc.Handler

	category, err := h.CatalogService.GetCategory(hc.Ctx, categoryID)
	if err != nil {
		common.HandleError(hc, err, "get_category")
		return
	}
	packages, err := h.CatalogService.ListPackages(hc.Ctx, categoryID, false)
	if err != nil {
		common.HandleError(hc, err, "list_packages")
		return
	}

	text, kb := common.BuildCategoryScreen(category, packages)
	hc.EditMessage(text, kb)
	hc.Answer("")
}

// HandleCategory показывает категорию с пакетами
func HandleCategory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}
		showCategory(hc, id)
	})
}

// HandleToggleCategory скрывает или показывает категорию
func HandleToggleCategory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		if _, err := h.CatalogService.ToggleCategory(ctx, hc.User, id); err != nil {
			common.HandleError(hc, err, "toggle_category")
			return
		}
		showCategory(hc, id)
	})
}

// HandlePackage карточка пакета
func HandlePackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		p, err := h.CatalogService.GetPackage(ctx, id)
		if err != nil {
			common.HandleError(hc, err, "get_package")
			return
		}

		text, kb := common.BuildPackageScreen(p)
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandleTogglePackage скрывает или возвращает пакет
func HandleTogglePackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		p, err := h.CatalogService.TogglePackage(ctx, hc.User, id)
		if err != nil {
			common.HandleError(hc, err, "toggle_package")
			return
		}

		text, kb := common.BuildPackageScreen(p)
		hc.EditMessage(text, kb)
		hc.Answer("Сохранено")
	})
}

// HandleNewCategory начинает создание категории
func HandleNewCategory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		hc.EnterState(state.StateCategoryName)

		hc.EditMessage("🗂 <b>Новая категория</b>\n\n"+
			"Шаг 1 из 2: название категории\n\n"+
			"Например: Уход за лежачими, Инъекции и капельницы, Реабилитация\n\n"+
			"Для отмены используйте /cancel", nil)
		hc.Answer("")
	})
}

// HandleNewPackage начинает создание пакета в категории
func HandleNewPackage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		categoryID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		category, err := h.CatalogService.GetCategory(ctx, categoryID)
		if err != nil {
			common.HandleError(hc, err, "get_category")
			return
		}

		hc.ClearState()
		hc.EnterState(state.StatePackageName)
		hc.SetData(state.KeyPackageDraft, &model.ServicePackage{CategoryID: category.ID, IsActive: true})

		hc.EditMessage(fmt.Sprintf("📦 <b>Новый пакет</b> в «%s»\n\n"+
			"Шаг 1 из 6: название пакета\n\n"+
			"Для отмены используйте /cancel", category.Name), nil)
		hc.Answer("")
	})
}
