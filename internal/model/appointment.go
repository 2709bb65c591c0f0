package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает назначения медсестры
	AppointmentStatusAssigned  AppointmentStatus = "assigned"  // Медсестра назначена
	AppointmentStatusCompleted AppointmentStatus = "completed" // Визит состоялся
	AppointmentStatusCanceled  AppointmentStatus = "canceled"  // Отменён
)

// IsActive визит ещё предстоит
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusAssigned
}

// Appointment один визит медсестры к пациенту
type Appointment struct {
	ID               int64             `json:"id"`
	GroupID          uuid.UUID         `json:"group_id"`      // общий для всех визитов одного пакета
	SessionIndex     int               `json:"session_index"` // 0-based номер визита в пакете
	PackageID        int64             `json:"package_id"`
	PatientID        int64             `json:"patient-id"`
	NursingID        *int64            `json:"nursing-id"` // nil - медсестра ещё не назначена
	EstDate          time.Time         `json:"est-date"`
	TotalEstDuration int               `json:"total-est-duration"` // минуты
	Status           AppointmentStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Package *ServicePackage `json:"package,omitempty"`
	Patient *Patient        `json:"patient,omitempty"`
}

// EndsAt расчётное окончание визита
func (a *Appointment) EndsAt() time.Time {
	return a.EstDate.Add(time.Duration(a.TotalEstDuration) * time.Minute)
}
