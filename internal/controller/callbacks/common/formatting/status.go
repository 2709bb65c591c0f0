package formatting

import "github.com/Freeeeeet/homecare_bot/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса визита
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает назначения медсестры"},
		model.AppointmentStatusAssigned:  {"✅", "Медсестра назначена"},
		model.AppointmentStatusCompleted: {"✔️", "Состоялся"},
		model.AppointmentStatusCanceled:  {"❌", "Отменён"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetReportStatusDisplay возвращает emoji и текст для статуса отчёта
func GetReportStatusDisplay(status model.ReportStatus) StatusDisplay {
	displays := map[model.ReportStatus]StatusDisplay{
		model.ReportStatusPending:  {"⏳", "На проверке"},
		model.ReportStatusApproved: {"✅", "Принят"},
		model.ReportStatusRejected: {"🚫", "Возвращён"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetRoleDisplay название роли для сообщений
func GetRoleDisplay(role model.Role) string {
	switch role {
	case model.RoleClient:
		return "Клиент"
	case model.RoleNurse:
		return "Медсестра"
	case model.RoleManager:
		return "Менеджер"
	case model.RoleAdmin:
		return "Администратор"
	}
	return string(role)
}
