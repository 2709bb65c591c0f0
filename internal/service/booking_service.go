package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// maxSessionSpan самый длинный визит; нужен чтобы найти визиты, начавшиеся накануне
const maxSessionSpan = MaxSessionDuration * time.Minute

// SchedulePolicy рабочие часы и горизонт записи
type SchedulePolicy struct {
	Window      scheduling.DayWindow
	StepMinutes int
	HorizonDays int
}

// BookingRequest выбранные клиентом визиты пакета
type BookingRequest struct {
	OwnerID   int64
	PatientID int64
	PackageID int64
	NurseID   *int64
	Sessions  []scheduling.SelectedDateTime
}

type BookingService struct {
	tx              TxRunner
	userRepo        UserStore
	patientRepo     PatientStore
	catalogRepo     CatalogStore
	appointmentRepo AppointmentStore
	policy          SchedulePolicy
	clock           scheduling.Clock
	logger          *zap.Logger
}

func NewBookingService(
	tx TxRunner,
	userRepo UserStore,
	patientRepo PatientStore,
	catalogRepo CatalogStore,
	appointmentRepo AppointmentStore,
	policy SchedulePolicy,
	clock scheduling.Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:              tx,
		userRepo:        userRepo,
		patientRepo:     patientRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		clock:           clock,
		logger:          logger,
	}
}

// Policy возвращает рабочие часы для построения слотов
func (s *BookingService) Policy() SchedulePolicy {
	return s.policy
}

// BookPackage сохраняет все визиты пакета одной транзакцией с общим GroupID
func (s *BookingService) BookPackage(ctx context.Context, req BookingRequest) ([]*model.Appointment, error) {
	pkg, err := s.catalogRepo.GetPackage(ctx, req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if pkg == nil || !pkg.IsActive {
		return nil, ErrPackageNotFound
	}

	patient, err := s.patientRepo.GetByID(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if patient == nil || patient.OwnerID != req.OwnerID {
		return nil, ErrPatientNotFound
	}

	if err := s.checkSessions(pkg, req.Sessions); err != nil {
		return nil, err
	}

	if req.NurseID != nil {
		nurse, err := s.userRepo.GetByID(ctx, *req.NurseID)
		if err != nil {
			return nil, fmt.Errorf("get nurse: %w", err)
		}
		if nurse == nil || nurse.Role != model.RoleNurse {
			return nil, ErrNurseNotFound
		}
	}

	groupID := uuid.New()
	appointments := make([]*model.Appointment, 0, len(req.Sessions))

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if req.NurseID != nil {
			// сериализуем конкурирующие записи к одной медсестре
			if err := s.userRepo.LockForUpdate(ctx, *req.NurseID); err != nil {
				return err
			}
		}

		for i, session := range req.Sessions {
			start := session.StartsAt()
			end := start.Add(time.Duration(pkg.SessionDuration) * time.Minute)

			busy, err := s.patientOverlaps(ctx, patient.ID, start, end)
			if err != nil {
				return err
			}
			if busy {
				return fmt.Errorf("%w: %s", ErrPatientBusy, session.ISOString)
			}

			if req.NurseID != nil {
				overlapping, err := s.appointmentRepo.ListNurseOverlapping(ctx, *req.NurseID, start, end)
				if err != nil {
					return fmt.Errorf("check nurse: %w", err)
				}
				if len(overlapping) > 0 {
					return fmt.Errorf("%w: %s", ErrNurseBusy, session.ISOString)
				}
			}

			a := &model.Appointment{
				GroupID:          groupID,
				SessionIndex:     i,
				PackageID:        pkg.ID,
				PatientID:        patient.ID,
				NursingID:        req.NurseID,
				EstDate:          start,
				TotalEstDuration: pkg.SessionDuration,
				Status:           model.AppointmentStatusPending,
			}
			if req.NurseID != nil {
				a.Status = model.AppointmentStatusAssigned
			}

			if err := s.appointmentRepo.Create(ctx, a); err != nil {
				return err
			}
			a.Package = pkg
			a.Patient = patient
			appointments = append(appointments, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book package: %w", err)
	}

	s.logger.Info("Package booked",
		zap.String("group_id", groupID.String()),
		zap.Int64("package_id", pkg.ID),
		zap.Int64("patient_id", patient.ID),
		zap.Int("sessions", len(appointments)),
		zap.Bool("nurse_selected", req.NurseID != nil),
	)

	return appointments, nil
}

// checkSessions повторно проверяет выбор клиента: даты по правилам пакета, будущее время, рабочие часы
func (s *BookingService) checkSessions(pkg *model.ServicePackage, sessions []scheduling.SelectedDateTime) error {
	dates := make([]time.Time, len(sessions))
	for i, session := range sessions {
		dates[i] = session.Date
	}

	plan := scheduling.Plan{ComboDays: pkg.ComboDays, TimeInterval: pkg.TimeInterval}
	if err := scheduling.ValidateSchedule(dates, plan); err != nil {
		return err
	}

	open, err := scheduling.ParseClock(s.policy.Window.Open)
	if err != nil {
		return fmt.Errorf("working hours: %w", err)
	}
	closeAt, err := scheduling.ParseClock(s.policy.Window.Close)
	if err != nil {
		return fmt.Errorf("working hours: %w", err)
	}

	now := s.clock.Now()
	horizon := scheduling.AddDays(now, s.policy.HorizonDays+1)

	for _, session := range sessions {
		if session.TimeSlot.DurationMinutes() != pkg.SessionDuration {
			return fmt.Errorf("%w: slot %s does not match session duration", scheduling.ErrInvalidSchedule, session.TimeSlot.Value)
		}

		start := session.TimeSlot.StartMinutes()
		if start < open || start+pkg.SessionDuration > closeAt {
			return fmt.Errorf("%w: %s", ErrOutsideWorkingHours, session.TimeSlot.Display)
		}

		startsAt := session.StartsAt()
		if !startsAt.After(now) {
			return fmt.Errorf("%w: %s", ErrSessionInPast, startsAt.Format(time.RFC3339))
		}
		if s.policy.HorizonDays > 0 && !startsAt.Before(horizon) {
			return fmt.Errorf("%w: %s", ErrBeyondHorizon, startsAt.Format(time.RFC3339))
		}
	}
	return nil
}

func (s *BookingService) patientOverlaps(ctx context.Context, patientID int64, start, end time.Time) (bool, error) {
	existing, err := s.appointmentRepo.ListForPatient(ctx, patientID, start.Add(-maxSessionSpan), end)
	if err != nil {
		return false, fmt.Errorf("check patient schedule: %w", err)
	}
	for _, a := range existing {
		if a.EstDate.Before(end) && start.Before(a.EndsAt()) {
			return true, nil
		}
	}
	return false, nil
}

// BusyIntervals возвращает занятое время пациента в указанный день для фильтрации слотов
func (s *BookingService) BusyIntervals(ctx context.Context, patientID int64, date time.Time) ([]scheduling.Interval, error) {
	dayStart := scheduling.StartOfDay(date)
	existing, err := s.appointmentRepo.ListForPatient(ctx, patientID, dayStart.Add(-maxSessionSpan), dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}

	intervals := make([]scheduling.Interval, 0, len(existing))
	for _, a := range existing {
		intervals = append(intervals, scheduling.Interval{Start: a.EstDate, End: a.EndsAt()})
	}
	return intervals, nil
}

// ListByOwner возвращает предстоящие визиты пациентов пользователя
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Appointment, error) {
	from := scheduling.StartOfDay(s.clock.Now())
	appointments, err := s.appointmentRepo.ListByOwner(ctx, ownerID, from)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// GetAppointment возвращает визит с пакетом и пациентом
func (s *BookingService) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, []*model.Appointment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// canTouch владелец пациента или менеджер
func canTouch(actor *model.User, a *model.Appointment) bool {
	if actor == nil {
		return false
	}
	if actor.Role.CanManage() {
		return true
	}
	return a.Patient != nil && a.Patient.OwnerID == actor.ID
}

// CancelAppointment отменяет один предстоящий визит
func (s *BookingService) CancelAppointment(ctx context.Context, actor *model.User, appointmentID int64) (*model.Appointment, error) {
	a, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, a) {
		return nil, ErrForbidden
	}
	if !a.Status.IsActive() {
		return nil, ErrAppointmentClosed
	}
	if !a.EstDate.After(s.clock.Now()) {
		return nil, ErrSessionInPast
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, a.ID, model.AppointmentStatusCanceled); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	a.Status = model.AppointmentStatusCanceled

	s.logger.Info("Appointment canceled",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("by", actor.ID),
	)
	return a, nil
}

// CancelGroup отменяет все оставшиеся визиты пакета
func (s *BookingService) CancelGroup(ctx context.Context, actor *model.User, appointmentID int64) (int64, error) {
	a, err := s.GetAppointment(ctx, appointmentID)
	if err != nil {
		return 0, err
	}
	if !canTouch(actor, a) {
		return 0, ErrForbidden
	}

	canceled, err := s.appointmentRepo.CancelGroupFrom(ctx, a.GroupID, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("cancel group: %w", err)
	}
	if canceled == 0 {
		return 0, ErrAppointmentClosed
	}

	s.logger.Info("Appointment group canceled",
		zap.String("group_id", a.GroupID.String()),
		zap.Int64("canceled", canceled),
		zap.Int64("by", actor.ID),
	)
	return canceled, nil
}
