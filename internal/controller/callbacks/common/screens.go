package common

import (
	"fmt"
	"html"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// MainMenuText список команд, доступных роли
func MainMenuText(user *model.User) string {
	text := "📋 Главное меню\n\n" +
		"/book - Записаться на услугу\n" +
		"/mybookings - Мои записи\n" +
		"/patients - Мои пациенты\n" +
		"/help - Справка\n"

	if user.Role.IsStaff() {
		text += "\nПерсонал:\n" +
			"/myschedule - Моё расписание\n" +
			"/reports - Отчёты о визитах\n"
	}

	if user.Role.CanManage() {
		text += "\nУправление:\n" +
			"/catalog - Каталог услуг\n" +
			"/assign - Назначить медсестёр\n" +
			"/approvals - Проверка отчётов\n" +
			"/schedule - Расписание всех визитов\n"
	}

	if user.Role == model.RoleAdmin {
		text += "/setrole - Изменить роль пользователя\n"
	}

	return text
}

// BuildPackageScreen карточка пакета для менеджера
func BuildPackageScreen(p *model.ServicePackage) (string, *models.InlineKeyboardMarkup) {
	status := "✅ Активен"
	toggle := "⏸ Скрыть из каталога"
	if !p.IsActive {
		status = "⏸ Скрыт"
		toggle = "▶️ Вернуть в каталог"
	}

	text := formatting.FormatPackageInfo(p) + "\n📊 " + status

	kb := keyboard.NewBuilder().
		Row(keyboard.Button(toggle, fmt.Sprintf("ct_pkg_toggle:%d", p.ID))).
		Row(keyboard.BackButton(fmt.Sprintf("ct_cat:%d", p.CategoryID))).
		Build()

	return text, kb
}

// BuildCategoryScreen категория с её пакетами для менеджера
func BuildCategoryScreen(c *model.Category, packages []*model.ServicePackage) (string, *models.InlineKeyboardMarkup) {
	status := "✅ Активна"
	toggle := "⏸ Скрыть категорию"
	if !c.IsActive {
		status = "⏸ Скрыта"
		toggle = "▶️ Показать категорию"
	}

	text := fmt.Sprintf("🗂 <b>%s</b>\n%s\n\n📊 %s\n📦 Пакетов: %d",
		html.EscapeString(c.Name), html.EscapeString(c.Description), status, len(packages))

	b := keyboard.NewBuilder()
	for _, p := range packages {
		label := formatting.FormatPackageShort(p)
		if !p.IsActive {
			label = "⏸ " + label
		}
		b.Row(keyboard.Button(label, fmt.Sprintf("ct_pkg:%d", p.ID)))
	}
	b.Row(keyboard.Button("➕ Новый пакет", fmt.Sprintf("ct_pkg_new:%d", c.ID)))
	b.Row(keyboard.Button(toggle, fmt.Sprintf("ct_cat_toggle:%d", c.ID)))
	b.AddBackButton("ct_list")

	return text, b.Build()
}
