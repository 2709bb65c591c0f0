package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/app"
	"github.com/Freeeeeet/homecare_bot/internal/config"
	"github.com/Freeeeeet/homecare_bot/internal/controller"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/homecare_bot/internal/controller/handlers"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/repository"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting homecare bot",
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"workday", cfg.WorkdayOpen+"-"+cfg.WorkdayClose)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	txRunner := base.NewRepository(pool)

	// Сервисы
	clock := scheduling.SystemClock{Location: cfg.Location}
	policy := service.SchedulePolicy{
		Window:      cfg.Workday(),
		StepMinutes: cfg.SlotStepMinutes,
		HorizonDays: cfg.BookingHorizonDays,
	}

	userService := service.NewUserService(userRepo, logger)
	patientService := service.NewPatientService(patientRepo, clock, logger)
	catalogService := service.NewCatalogService(catalogRepo, cfg.BookingHorizonDays, logger)
	bookingService := service.NewBookingService(txRunner, userRepo, patientRepo, catalogRepo, appointmentRepo, policy, clock, logger)
	staffService := service.NewStaffService(txRunner, userRepo, patientRepo, catalogRepo, appointmentRepo, clock, logger)
	reportService := service.NewReportService(reportRepo, appointmentRepo, clock, logger)

	if err := userService.EnsureAdmins(ctx, cfg.AdminTelegramIDs); err != nil {
		logger.Warn("Failed to ensure admins", zap.Error(err))
	}

	// Состояния диалогов и обработчики
	stateManager := state.NewManager()
	callbackHandler := callbacks.NewHandler(
		callbacks.Services{
			Users:    userService,
			Patients: patientService,
			Catalog:  catalogService,
			Booking:  bookingService,
			Staff:    staffService,
			Reports:  reportService,
		},
		state.NewAdapter(stateManager),
		clock,
		cfg.Location,
		logger,
	)
	cmdHandlers := handlers.NewHandlers(callbackHandler.Handler, stateManager, logger)

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
	}))
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, cmdHandlers, callbackHandler, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(staffService, botController, clock, cfg.Location, cfg.ReminderHour, logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	logger.Info("✅ Bot is running")
	if err := botController.Start(ctx); err != nil {
		return err
	}

	logger.Info("Shutting down")
	return nil
}
