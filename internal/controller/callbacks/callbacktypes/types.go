package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService    *service.UserService
	PatientService *service.PatientService
	CatalogService *service.CatalogService
	BookingService *service.BookingService
	StaffService   *service.StaffService
	ReportService  *service.ReportService
	StateManager   StateManager
	Clock          scheduling.Clock
	Location       *time.Location
	Logger         *zap.Logger
}

// Now текущее время в часовом поясе сервиса
func (h *Handler) Now() time.Time {
	return h.Clock.Now().In(h.Location)
}
