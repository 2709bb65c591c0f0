package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Handler with Dependencies
// ========================

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// Services сервисы, нужные обработчикам callback
type Services struct {
	Users    *service.UserService
	Patients *service.PatientService
	Catalog  *service.CatalogService
	Booking  *service.BookingService
	Staff    *service.StaffService
	Reports  *service.ReportService
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	services Services,
	stateManager callbacktypes.StateManager,
	clock scheduling.Clock,
	loc *time.Location,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		UserService:    services.Users,
		PatientService: services.Patients,
		CatalogService: services.Catalog,
		BookingService: services.Booking,
		StaffService:   services.Staff,
		ReportService:  services.Reports,
		StateManager:   stateManager,
		Clock:          clock,
		Location:       loc,
		Logger:         logger,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data

	h.Logger.Info("Callback received",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
	)

	// Вызываем роутер
	Route(ctx, b, callback, h.Handler)
}
