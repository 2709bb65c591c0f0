package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

const appointmentColumns = `a.id, a.group_id, a.session_index, a.package_id, a.patient_id, a.nursing_id,
	a.est_date, a.total_est_duration, a.status, a.created_at`

// визит занимает медсестру пока не отменён и не завершён
const activeStatuses = `('pending', 'assigned')`

func scanAppointment(row interface{ Scan(dest ...any) error }) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.GroupID,
		&a.SessionIndex,
		&a.PackageID,
		&a.PatientID,
		&a.NursingID,
		&a.EstDate,
		&a.TotalEstDuration,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return appointments, nil
}

// Create создаёт визит
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (group_id, session_index, package_id, patient_id, nursing_id, est_date, total_est_duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		a.GroupID,
		a.SessionIndex,
		a.PackageID,
		a.PatientID,
		a.NursingID,
		a.EstDate,
		a.TotalEstDuration,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID получает визит по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := scanAppointment(r.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

// ListByGroup возвращает все визиты одного пакета по порядку
func (r *AppointmentRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.group_id = $1 ORDER BY a.session_index`
	return r.list(ctx, "list appointments by group", query, groupID)
}

// ListByOwner возвращает визиты всех пациентов пользователя начиная с from
func (r *AppointmentRepository) ListByOwner(ctx context.Context, ownerID int64, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE p.owner_id = $1 AND a.est_date >= $2
		ORDER BY a.est_date
	`
	return r.list(ctx, "list appointments by owner", query, ownerID, from)
}

// ListForPatient возвращает активные визиты пациента в интервале [from, to)
func (r *AppointmentRepository) ListForPatient(ctx context.Context, patientID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.patient_id = $1 AND a.est_date >= $2 AND a.est_date < $3 AND a.status IN ` + activeStatuses + `
		ORDER BY a.est_date
	`
	return r.list(ctx, "list patient appointments", query, patientID, from, to)
}

// ListUnassigned возвращает будущие визиты без медсестры
func (r *AppointmentRepository) ListUnassigned(ctx context.Context, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.status = 'pending' AND a.nursing_id IS NULL AND a.est_date >= $1
		ORDER BY a.est_date
	`
	return r.list(ctx, "list unassigned appointments", query, from)
}

// ListForNurse возвращает неотменённые визиты медсестры в интервале [from, to)
func (r *AppointmentRepository) ListForNurse(ctx context.Context, nurseID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.nursing_id = $1 AND a.est_date >= $2 AND a.est_date < $3 AND a.status <> 'canceled'
		ORDER BY a.est_date, a.id
	`
	return r.list(ctx, "list nurse appointments", query, nurseID, from, to)
}

// ListBetween возвращает неотменённые визиты всех медсестёр в интервале [from, to)
func (r *AppointmentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.est_date >= $1 AND a.est_date < $2 AND a.status <> 'canceled'
		ORDER BY a.est_date, a.id
	`
	return r.list(ctx, "list appointments between", query, from, to)
}

// ListActiveBetween возвращает предстоящие визиты в интервале [from, to)
func (r *AppointmentRepository) ListActiveBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.est_date >= $1 AND a.est_date < $2 AND a.status IN ` + activeStatuses + `
		ORDER BY a.est_date, a.id
	`
	return r.list(ctx, "list active appointments", query, from, to)
}

// ListNurseOverlapping возвращает активные визиты медсестры, пересекающиеся с [start, end)
func (r *AppointmentRepository) ListNurseOverlapping(ctx context.Context, nurseID int64, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		WHERE a.nursing_id = $1
		  AND a.status IN ` + activeStatuses + `
		  AND a.est_date < $3
		  AND a.est_date + make_interval(mins => a.total_est_duration) > $2
		ORDER BY a.est_date
	`
	return r.list(ctx, "list overlapping appointments", query, nurseID, start, end)
}

// AssignNurse назначает медсестру на визит
func (r *AppointmentRepository) AssignNurse(ctx context.Context, id, nurseID int64) error {
	query := `
		UPDATE appointments
		SET nursing_id = $1, status = 'assigned'
		WHERE id = $2 AND status IN ` + activeStatuses

	affected, err := r.ExecAffected(ctx, query, nurseID, id)
	if err != nil {
		return fmt.Errorf("assign nurse: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment not found or closed")
	}
	return nil
}

// UpdateStatus обновляет статус визита
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	affected, err := r.ExecAffected(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

// CancelGroupFrom отменяет активные визиты пакета, начинающиеся после from
func (r *AppointmentRepository) CancelGroupFrom(ctx context.Context, groupID uuid.UUID, from time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'canceled'
		WHERE group_id = $1 AND est_date > $2 AND status IN ` + activeStatuses

	affected, err := r.ExecAffected(ctx, query, groupID, from)
	if err != nil {
		return 0, fmt.Errorf("cancel appointment group: %w", err)
	}
	return affected, nil
}

// CompleteFinished переводит в completed назначенные визиты, закончившиеся до now
func (r *AppointmentRepository) CompleteFinished(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		UPDATE appointments
		SET status = 'completed'
		WHERE status = 'assigned'
		  AND est_date + make_interval(mins => total_est_duration) <= $1
		RETURNING id
	`

	rows, err := r.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("complete finished appointments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan appointment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
