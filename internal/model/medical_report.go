package model

import (
	"errors"
	"time"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// ErrReportReviewed отчёт уже рассмотрен другим менеджером
var ErrReportReviewed = errors.New("report already reviewed")

// MedicalReport отчёт медсестры о проведённом визите
type MedicalReport struct {
	ID            int64        `json:"id"`
	AppointmentID int64        `json:"appointment_id"`
	NurseID       int64        `json:"nurse_id"`
	Content       string       `json:"content"`
	Status        ReportStatus `json:"status"`
	ReviewerID    *int64       `json:"reviewer_id"`
	ReviewComment string       `json:"review_comment"`
	CreatedAt     time.Time    `json:"created_at"`
	ReviewedAt    *time.Time   `json:"reviewed_at"`
}

// IsPending checks if report waits for review
func (r *MedicalReport) IsPending() bool {
	return r.Status == ReportStatusPending
}
