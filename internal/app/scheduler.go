package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

// Notifier доставляет напоминания пользователям
type Notifier interface {
	NotifyReminder(ctx context.Context, r service.Reminder) error
}

// StaffJobs операции, которые планировщик запускает по расписанию
type StaffJobs interface {
	CompleteFinished(ctx context.Context) (int, error)
	UpcomingBetween(ctx context.Context, from, to time.Time) ([]service.Reminder, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	staff        StaffJobs
	notifier     Notifier
	clock        scheduling.Clock
	reminderHour int
	cron         *cron.Cron
	logger       *zap.Logger
}

// NewScheduler создаёт новый планировщик
func NewScheduler(staff StaffJobs, notifier Notifier, clock scheduling.Clock, loc *time.Location, reminderHour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		staff:        staff,
		notifier:     notifier,
		clock:        clock,
		reminderHour: reminderHour,
		cron:         cron.New(cron.WithLocation(loc)),
		logger:       logger,
	}
}

// Start регистрирует и запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler", zap.Int("reminder_hour", s.reminderHour))

	if _, err := s.cron.AddFunc("*/15 * * * *", func() { s.completeFinished(ctx) }); err != nil {
		return fmt.Errorf("schedule completion job: %w", err)
	}

	spec := fmt.Sprintf("0 %d * * *", s.reminderHour)
	if _, err := s.cron.AddFunc(spec, func() { s.SendReminders(ctx) }); err != nil {
		return fmt.Errorf("schedule reminder job: %w", err)
	}

	// Первый запуск сразу при старте
	go s.completeFinished(ctx)

	s.cron.Start()
	return nil
}

// Stop останавливает фоновые задачи и ждёт завершения запущенных
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// completeFinished закрывает визиты, время которых прошло
func (s *Scheduler) completeFinished(ctx context.Context) {
	n, err := s.staff.CompleteFinished(ctx)
	if err != nil {
		s.logger.Error("Failed to complete finished appointments", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Finished appointments closed", zap.Int("count", n))
	}
}

// SendReminders рассылает напоминания о визитах на завтра
func (s *Scheduler) SendReminders(ctx context.Context) {
	from := scheduling.AddDays(s.clock.Now(), 1)
	to := from.AddDate(0, 0, 1)

	reminders, err := s.staff.UpcomingBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to load reminders", zap.Error(err))
		return
	}

	sent := 0
	for _, r := range reminders {
		if err := s.notifier.NotifyReminder(ctx, r); err != nil {
			s.logger.Warn("Failed to send reminder",
				zap.Int64("appointment_id", r.Appointment.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("Reminders sent", zap.Int("sent", sent), zap.Int("total", len(reminders)))
}
