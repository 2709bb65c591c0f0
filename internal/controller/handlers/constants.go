package handlers

import "strings"

// Константы валидации для диалогов
const (
	// Профиль пациента
	PatientNameMinLength    = 2
	PatientNameMaxLength    = 200
	PatientAddressMinLength = 5
	PatientAddressMaxLength = 300
	PatientNotesMaxLength   = 1000

	// Категория
	CategoryNameMinLength        = 3
	CategoryNameMaxLength        = 100
	CategoryDescriptionMaxLength = 500

	// Пакет услуг
	PackageNameMinLength        = 3
	PackageNameMaxLength        = 100
	PackageDescriptionMaxLength = 500
	PackageMaxPrice             = 1_000_000 // в рублях
	PackageMaxComboDays         = 30
	PackageMaxTimeInterval      = 30

	// Отчёт о визите
	ReportMinLength = 10
	ReportMaxLength = 3000

	// Комментарий к возвращённому отчёту
	RejectCommentMinLength = 3
	RejectCommentMaxLength = 500
)

// skipInput ввод для пропуска необязательного шага
const skipInput = "-"

// Command команда бота и её описание для меню
type Command struct {
	Name        string
	Description string
}

// Commands команды, которые показываются в меню бота
var Commands = []Command{
	{Name: "start", Description: "🚀 Начать работу с ботом"},
	{Name: "help", Description: "❓ Справка по командам"},
	{Name: "book", Description: "📅 Записаться на услугу"},
	{Name: "mybookings", Description: "🗂 Мои записи"},
	{Name: "patients", Description: "👥 Мои пациенты"},
	{Name: "myschedule", Description: "🗓 Моё расписание (персонал)"},
	{Name: "reports", Description: "📝 Отчёты о визитах (персонал)"},
	{Name: "catalog", Description: "📚 Каталог услуг (менеджер)"},
	{Name: "assign", Description: "👩‍⚕️ Назначить медсестёр (менеджер)"},
	{Name: "approvals", Description: "📋 Проверка отчётов (менеджер)"},
	{Name: "schedule", Description: "📆 Все визиты недели (менеджер)"},
	{Name: "cancel", Description: "✖️ Отменить текущее действие"},
}

// isKnownCommand команда из меню или служебная /setrole
func isKnownCommand(text string) bool {
	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	if name == "setrole" {
		return true
	}
	for _, c := range Commands {
		if c.Name == name {
			return true
		}
	}
	return false
}
