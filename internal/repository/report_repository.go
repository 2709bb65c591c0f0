package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
)

type ReportRepository struct {
	*base.Repository
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{Repository: base.NewRepository(pool)}
}

const reportColumns = `id, appointment_id, nurse_id, content, status, reviewer_id, review_comment, created_at, reviewed_at`

func scanReport(row interface{ Scan(dest ...any) error }) (*model.MedicalReport, error) {
	var rep model.MedicalReport
	err := row.Scan(
		&rep.ID,
		&rep.AppointmentID,
		&rep.NurseID,
		&rep.Content,
		&rep.Status,
		&rep.ReviewerID,
		&rep.ReviewComment,
		&rep.CreatedAt,
		&rep.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.MedicalReport, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var reports []*model.MedicalReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// Create сохраняет отчёт
func (r *ReportRepository) Create(ctx context.Context, rep *model.MedicalReport) error {
	query := `
		INSERT INTO medical_reports (appointment_id, nurse_id, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, rep.AppointmentID, rep.NurseID, rep.Content, rep.Status).
		Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetByID получает отчёт по ID
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*model.MedicalReport, error) {
	rep, err := scanReport(r.QueryRow(ctx, `SELECT `+reportColumns+` FROM medical_reports WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// ListPending возвращает отчёты, ожидающие проверки
func (r *ReportRepository) ListPending(ctx context.Context) ([]*model.MedicalReport, error) {
	query := `SELECT ` + reportColumns + ` FROM medical_reports WHERE status = 'pending' ORDER BY created_at`
	return r.list(ctx, "list pending reports", query)
}

// ListByAppointment возвращает все отчёты по визиту
func (r *ReportRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.MedicalReport, error) {
	query := `SELECT ` + reportColumns + ` FROM medical_reports WHERE appointment_id = $1 ORDER BY created_at`
	return r.list(ctx, "list reports by appointment", query, appointmentID)
}

// Review фиксирует решение проверяющего; только для отчёта в статусе pending
func (r *ReportRepository) Review(ctx context.Context, id, reviewerID int64, status model.ReportStatus, comment string, at time.Time) error {
	query := `
		UPDATE medical_reports
		SET status = $1, reviewer_id = $2, review_comment = $3, reviewed_at = $4
		WHERE id = $5 AND status = 'pending'
	`

	affected, err := r.ExecAffected(ctx, query, status, reviewerID, comment, at, id)
	if err != nil {
		return fmt.Errorf("review report: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %d: %w", id, model.ErrReportReviewed)
	}
	return nil
}
