package handlers

import (
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService    *service.UserService
	patientService *service.PatientService
	catalogService *service.CatalogService
	reportService  *service.ReportService
	stateManager   *state.Manager
	logger         *zap.Logger

	// screens общие зависимости экранов из callbacks: команды показывают те же экраны
	screens *callbacktypes.Handler
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	screens *callbacktypes.Handler,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:    screens.UserService,
		patientService: screens.PatientService,
		catalogService: screens.CatalogService,
		reportService:  screens.ReportService,
		stateManager:   stateManager,
		logger:         logger,
		screens:        screens,
	}
}
