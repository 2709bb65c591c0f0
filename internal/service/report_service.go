package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

const maxReportLength = 4000

type ReportService struct {
	reportRepo      ReportStore
	appointmentRepo AppointmentStore
	clock           scheduling.Clock
	logger          *zap.Logger
}

func NewReportService(reportRepo ReportStore, appointmentRepo AppointmentStore, clock scheduling.Clock, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		appointmentRepo: appointmentRepo,
		clock:           clock,
		logger:          logger,
	}
}

// Submit сохраняет отчёт медсестры о визите
func (s *ReportService) Submit(ctx context.Context, nurse *model.User, appointmentID int64, content string) (*model.MedicalReport, error) {
	if nurse == nil || nurse.Role != model.RoleNurse {
		return nil, ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyReport
	}
	if len([]rune(content)) > maxReportLength {
		content = string([]rune(content)[:maxReportLength])
	}

	a, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	if a.NursingID == nil || *a.NursingID != nurse.ID {
		return nil, ErrForbidden
	}
	if a.Status == model.AppointmentStatusCanceled {
		return nil, ErrAppointmentClosed
	}
	if a.EstDate.After(s.clock.Now()) {
		return nil, ErrAppointmentNotStarted
	}

	existing, err := s.reportRepo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	for _, r := range existing {
		if r.Status != model.ReportStatusRejected {
			return nil, ErrReportExists
		}
	}

	rep := &model.MedicalReport{
		AppointmentID: appointmentID,
		NurseID:       nurse.ID,
		Content:       content,
		Status:        model.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, rep); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, ErrReportExists
		}
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.logger.Info("Report submitted",
		zap.Int64("report_id", rep.ID),
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("nurse_id", nurse.ID),
	)
	return rep, nil
}

// ListPending возвращает отчёты на проверку
func (s *ReportService) ListPending(ctx context.Context, actor *model.User) ([]*model.MedicalReport, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}
	return s.reportRepo.ListPending(ctx)
}

// ListForAppointment возвращает историю отчётов визита
func (s *ReportService) ListForAppointment(ctx context.Context, appointmentID int64) ([]*model.MedicalReport, error) {
	return s.reportRepo.ListByAppointment(ctx, appointmentID)
}

// Get возвращает отчёт
func (s *ReportService) Get(ctx context.Context, id int64) (*model.MedicalReport, error) {
	rep, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	return rep, nil
}

// Approve одобряет отчёт
func (s *ReportService) Approve(ctx context.Context, actor *model.User, reportID int64) (*model.MedicalReport, error) {
	return s.review(ctx, actor, reportID, model.ReportStatusApproved, "")
}

// Reject возвращает отчёт на доработку с комментарием
func (s *ReportService) Reject(ctx context.Context, actor *model.User, reportID int64, comment string) (*model.MedicalReport, error) {
	return s.review(ctx, actor, reportID, model.ReportStatusRejected, strings.TrimSpace(comment))
}

func (s *ReportService) review(ctx context.Context, actor *model.User, reportID int64, status model.ReportStatus, comment string) (*model.MedicalReport, error) {
	if actor == nil || !actor.Role.CanManage() {
		return nil, ErrForbidden
	}

	rep, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !rep.IsPending() {
		return nil, ErrReportReviewed
	}

	now := s.clock.Now()
	if err := s.reportRepo.Review(ctx, reportID, actor.ID, status, comment, now); err != nil {
		return nil, fmt.Errorf("review report: %w", err)
	}

	rep.Status = status
	rep.ReviewerID = &actor.ID
	rep.ReviewComment = comment
	rep.ReviewedAt = &now

	s.logger.Info("Report reviewed",
		zap.Int64("report_id", reportID),
		zap.String("status", string(status)),
		zap.Int64("by", actor.ID),
	)
	return rep, nil
}
