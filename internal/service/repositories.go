package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

// Интерфейсы хранилищ, которые нужны сервисам. Реализуются репозиториями из internal/repository.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
	SetRole(ctx context.Context, userID int64, role model.Role) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	LockForUpdate(ctx context.Context, userID int64) error
}

type PatientStore interface {
	Create(ctx context.Context, p *model.Patient) error
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Patient, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Patient, error)
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	SetCategoryActive(ctx context.Context, id int64, active bool) error
	CreatePackage(ctx context.Context, p *model.ServicePackage) error
	GetPackage(ctx context.Context, id int64) (*model.ServicePackage, error)
	GetPackagesByIDs(ctx context.Context, ids []int64) (map[int64]*model.ServicePackage, error)
	ListPackages(ctx context.Context, categoryID int64, activeOnly bool) ([]*model.ServicePackage, error)
	SetPackageActive(ctx context.Context, id int64, active bool) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*model.Appointment, error)
	ListByOwner(ctx context.Context, ownerID int64, from time.Time) ([]*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID int64, from, to time.Time) ([]*model.Appointment, error)
	ListUnassigned(ctx context.Context, from time.Time) ([]*model.Appointment, error)
	ListForNurse(ctx context.Context, nurseID int64, from, to time.Time) ([]*model.Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	ListNurseOverlapping(ctx context.Context, nurseID int64, start, end time.Time) ([]*model.Appointment, error)
	AssignNurse(ctx context.Context, id, nurseID int64) error
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	CancelGroupFrom(ctx context.Context, groupID uuid.UUID, from time.Time) (int64, error)
	CompleteFinished(ctx context.Context, now time.Time) ([]int64, error)
}

type ReportStore interface {
	Create(ctx context.Context, rep *model.MedicalReport) error
	GetByID(ctx context.Context, id int64) (*model.MedicalReport, error)
	ListPending(ctx context.Context) ([]*model.MedicalReport, error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.MedicalReport, error)
	Review(ctx context.Context, id, reviewerID int64, status model.ReportStatus, comment string, at time.Time) error
}

// TxRunner выполняет функцию в транзакции БД
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
