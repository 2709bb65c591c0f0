package service

import (
	"errors"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

// Доменные ошибки сервисов. Хендлеры сопоставляют их через errors.Is.
var (
	ErrForbidden = errors.New("forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")

	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidPatient      = errors.New("invalid patient profile")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrPackageNotFound     = errors.New("package not found")
	ErrInvalidPackage      = errors.New("invalid package")
	ErrPackageTooLong      = errors.New("package series exceeds booking horizon")
	ErrAppointmentNotFound = errors.New("appointment not found")

	ErrSessionInPast         = errors.New("session is in the past")
	ErrOutsideWorkingHours   = errors.New("session is outside working hours")
	ErrBeyondHorizon         = errors.New("session is too far in the future")
	ErrPatientBusy           = errors.New("patient already has a visit at this time")
	ErrNurseNotFound         = errors.New("nurse not found")
	ErrNurseBusy             = errors.New("nurse is busy at this time")
	ErrAppointmentClosed     = errors.New("appointment is completed or canceled")
	ErrAppointmentNotStarted = errors.New("appointment has not started yet")

	ErrReportNotFound = errors.New("report not found")
	ErrReportExists   = errors.New("report already submitted")
	ErrEmptyReport    = errors.New("report is empty")
	ErrReportReviewed = model.ErrReportReviewed
)
