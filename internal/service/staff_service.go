package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// Reminder напоминание о визите: кому и о чём
type Reminder struct {
	Appointment      *model.Appointment
	ClientTelegramID int64
	NurseTelegramID  int64 // 0 - медсестра не назначена
}

type StaffService struct {
	tx              TxRunner
	userRepo        UserStore
	patientRepo     PatientStore
	catalogRepo     CatalogStore
	appointmentRepo AppointmentStore
	clock           scheduling.Clock
	logger          *zap.Logger
}

func NewStaffService(
	tx TxRunner,
	userRepo UserStore,
	patientRepo PatientStore,
	catalogRepo CatalogStore,
	appointmentRepo AppointmentStore,
	clock scheduling.Clock,
	logger *zap.Logger,
) *StaffService {
	return &StaffService{
		tx:              tx,
		userRepo:        userRepo,
		patientRepo:     patientRepo,
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		clock:           clock,
		logger:          logger,
	}
}

// ListUnassigned возвращает предстоящие визиты без медсестры
func (s *StaffService) ListUnassigned(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.ListUnassigned(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list unassigned: %w", err)
	}
	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// AvailableNurses возвращает медсестёр, свободных во всех указанных интервалах
func (s *StaffService) AvailableNurses(ctx context.Context, intervals []scheduling.Interval) ([]*model.User, error) {
	nurses, err := s.userRepo.ListByRole(ctx, model.RoleNurse)
	if err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}

	var free []*model.User
	for _, nurse := range nurses {
		ok, err := s.nurseFree(ctx, nurse.ID, intervals, 0)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, nurse)
		}
	}
	return free, nil
}

// nurseFree проверяет отсутствие пересечений, игнорируя визиты группы exclude
func (s *StaffService) nurseFree(ctx context.Context, nurseID int64, intervals []scheduling.Interval, exclude int64) (bool, error) {
	for _, iv := range intervals {
		overlapping, err := s.appointmentRepo.ListNurseOverlapping(ctx, nurseID, iv.Start, iv.End)
		if err != nil {
			return false, fmt.Errorf("check nurse %d: %w", nurseID, err)
		}
		for _, a := range overlapping {
			if a.ID != exclude {
				return false, nil
			}
		}
	}
	return true, nil
}

// AssignNurse назначает медсестру на один визит
func (s *StaffService) AssignNurse(ctx context.Context, actor *model.User, appointmentID, nurseID int64) (*model.Appointment, error) {
	assigned, err := s.assign(ctx, actor, nurseID, func(ctx context.Context) ([]*model.Appointment, error) {
		a, err := s.appointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			return nil, fmt.Errorf("get appointment: %w", err)
		}
		if a == nil {
			return nil, ErrAppointmentNotFound
		}
		return []*model.Appointment{a}, nil
	})
	if err != nil {
		return nil, err
	}
	return assigned[0], nil
}

// AssignGroup назначает медсестру на все оставшиеся визиты пакета
func (s *StaffService) AssignGroup(ctx context.Context, actor *model.User, appointmentID, nurseID int64) ([]*model.Appointment, error) {
	return s.assign(ctx, actor, nurseID, func(ctx context.Context) ([]*model.Appointment, error) {
		a, err := s.appointmentRepo.GetByID(ctx, appointmentID)
		if err != nil {
			return nil, fmt.Errorf("get appointment: %w", err)
		}
		if a == nil {
			return nil, ErrAppointmentNotFound
		}

		group, err := s.appointmentRepo.ListByGroup(ctx, a.GroupID)
		if err != nil {
			return nil, fmt.Errorf("list group: %w", err)
		}

		now := s.clock.Now()
		var pending []*model.Appointment
		for _, g := range group {
			if g.Status.IsActive() && g.EstDate.After(now) {
				pending = append(pending, g)
			}
		}
		if len(pending) == 0 {
			return nil, ErrAppointmentClosed
		}
		return pending, nil
	})
}

func (s *StaffService) assign(ctx context.Context, actor *model.User, nurseID int64, load func(ctx context.Context) ([]*model.Appointment, error)) ([]*model.Appointment, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}

	nurse, err := s.userRepo.GetByID(ctx, nurseID)
	if err != nil {
		return nil, fmt.Errorf("get nurse: %w", err)
	}
	if nurse == nil || nurse.Role != model.RoleNurse {
		return nil, ErrNurseNotFound
	}

	var assigned []*model.Appointment
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.LockForUpdate(ctx, nurseID); err != nil {
			return err
		}

		appointments, err := load(ctx)
		if err != nil {
			return err
		}

		for _, a := range appointments {
			if !a.Status.IsActive() {
				return ErrAppointmentClosed
			}

			iv := []scheduling.Interval{{Start: a.EstDate, End: a.EndsAt()}}
			free, err := s.nurseFree(ctx, nurseID, iv, a.ID)
			if err != nil {
				return err
			}
			if !free {
				return fmt.Errorf("%w: %s", ErrNurseBusy, a.EstDate.Format(time.RFC3339))
			}

			if err := s.appointmentRepo.AssignNurse(ctx, a.ID, nurseID); err != nil {
				return err
			}
			a.NursingID = &nurseID
			a.Status = model.AppointmentStatusAssigned
		}

		assigned = appointments
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, assigned); err != nil {
		return nil, err
	}

	for _, a := range assigned {
		s.logger.Info("Nurse assigned",
			zap.Int64("appointment_id", a.ID),
			zap.Int64("nurse_id", nurseID),
			zap.Int64("by", actor.ID),
		)
	}
	return assigned, nil
}

// WeekSchedule возвращает визиты недели. nurseID == nil - все медсёстры.
func (s *StaffService) WeekSchedule(ctx context.Context, nurseID *int64, weekStart time.Time) ([]*model.Appointment, error) {
	from := scheduling.StartOfWeek(weekStart)
	to := from.AddDate(0, 0, 7)

	var (
		appointments []*model.Appointment
		err          error
	)
	if nurseID != nil {
		appointments, err = s.appointmentRepo.ListForNurse(ctx, *nurseID, from, to)
	} else {
		appointments, err = s.appointmentRepo.ListBetween(ctx, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("week schedule: %w", err)
	}

	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// CompleteFinished закрывает состоявшиеся визиты
func (s *StaffService) CompleteFinished(ctx context.Context) (int, error) {
	ids, err := s.appointmentRepo.CompleteFinished(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		s.logger.Info("Appointments completed", zap.Int64s("appointment_ids", ids))
	}
	return len(ids), nil
}

// UpcomingBetween собирает напоминания о визитах в интервале [from, to)
func (s *StaffService) UpcomingBetween(ctx context.Context, from, to time.Time) ([]Reminder, error) {
	appointments, err := s.appointmentRepo.ListActiveBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}
	if err := attachDetails(ctx, s.catalogRepo, s.patientRepo, appointments); err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(appointments)*2)
	for _, a := range appointments {
		if a.Patient != nil {
			userIDs = append(userIDs, a.Patient.OwnerID)
		}
		if a.NursingID != nil {
			userIDs = append(userIDs, *a.NursingID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, unique(userIDs))
	if err != nil {
		return nil, fmt.Errorf("load recipients: %w", err)
	}

	reminders := make([]Reminder, 0, len(appointments))
	for _, a := range appointments {
		r := Reminder{Appointment: a}
		if a.Patient != nil {
			if u := users[a.Patient.OwnerID]; u != nil {
				r.ClientTelegramID = u.TelegramID
			}
		}
		if a.NursingID != nil {
			if u := users[*a.NursingID]; u != nil {
				r.NurseTelegramID = u.TelegramID
			}
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}
