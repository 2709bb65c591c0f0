package common

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNotStaff       = errors.New("user is not staff")
	ErrNotManager     = errors.New("user is not a manager")
	ErrNoMessage      = errors.New("no message in callback")
	ErrInvalidFormat  = errors.New("invalid callback format")
	ErrSessionExpired = errors.New("dialog session expired")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNotStaff):
		return "❌ Эта функция доступна только персоналу"
	case errors.Is(err, ErrNotManager), errors.Is(err, service.ErrForbidden):
		return "❌ Недостаточно прав"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrSessionExpired):
		return "⌛ Сессия устарела. Начните заново: /book"
	case errors.Is(err, service.ErrInvalidRole):
		return "❌ Неизвестная роль"
	case errors.Is(err, service.ErrPatientNotFound):
		return "❌ Пациент не найден"
	case errors.Is(err, service.ErrInvalidPatient):
		return "❌ Проверьте данные пациента"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "❌ Категория не найдена"
	case errors.Is(err, service.ErrPackageNotFound):
		return "❌ Пакет услуг не найден или недоступен"
	case errors.Is(err, service.ErrPackageTooLong):
		return "❌ Серия визитов не помещается в горизонт записи"
	case errors.Is(err, service.ErrInvalidPackage):
		return "❌ Проверьте параметры пакета"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "❌ Визит не найден"
	case errors.Is(err, scheduling.ErrInvalidSchedule):
		return "❌ Даты визитов не соответствуют пакету"
	case errors.Is(err, service.ErrSessionInPast):
		return "❌ Выбранное время уже прошло"
	case errors.Is(err, service.ErrOutsideWorkingHours):
		return "❌ Время вне рабочих часов"
	case errors.Is(err, service.ErrBeyondHorizon):
		return "❌ Так далеко вперёд записаться нельзя"
	case errors.Is(err, service.ErrPatientBusy):
		return "❌ У пациента уже есть визит в это время"
	case errors.Is(err, service.ErrNurseNotFound):
		return "❌ Медсестра не найдена"
	case errors.Is(err, service.ErrNurseBusy):
		return "❌ Медсестра занята в это время"
	case errors.Is(err, service.ErrAppointmentClosed):
		return "❌ Визит уже завершён или отменён"
	case errors.Is(err, service.ErrAppointmentNotStarted):
		return "❌ Визит ещё не начался"
	case errors.Is(err, service.ErrReportNotFound):
		return "❌ Отчёт не найден"
	case errors.Is(err, service.ErrReportExists):
		return "❌ Отчёт по этому визиту уже отправлен"
	case errors.Is(err, service.ErrEmptyReport):
		return "❌ Отчёт не может быть пустым"
	case errors.Is(err, service.ErrReportReviewed):
		return "❌ Отчёт уже проверен"
	default:
		return "❌ Произошла ошибка"
	}
}

// IsMessageNotModifiedError Telegram отвечает так, если текст и клавиатура не изменились
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
