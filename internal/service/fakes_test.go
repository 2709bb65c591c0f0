package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// In-memory реализации хранилищ для тестов сервисов

type fakeTx struct{ calls int }

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeUsers struct {
	byID   map[int64]*model.User
	nextID int64
	locked []int64
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*model.User{}, nextID: 100}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *model.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	for _, u := range f.byID {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []int64) (map[int64]*model.User, error) {
	out := map[int64]*model.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUsers) SetRole(_ context.Context, userID int64, role model.Role) error {
	u, ok := f.byID[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) LockForUpdate(_ context.Context, userID int64) error {
	f.locked = append(f.locked, userID)
	return nil
}

type fakePatients struct {
	byID   map[int64]*model.Patient
	nextID int64
}

func newFakePatients(patients ...*model.Patient) *fakePatients {
	f := &fakePatients{byID: map[int64]*model.Patient{}, nextID: 100}
	for _, p := range patients {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePatients) Create(_ context.Context, p *model.Patient) error {
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = p
	return nil
}

func (f *fakePatients) GetByID(_ context.Context, id int64) (*model.Patient, error) {
	return f.byID[id], nil
}

func (f *fakePatients) GetByIDs(_ context.Context, ids []int64) (map[int64]*model.Patient, error) {
	out := map[int64]*model.Patient{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakePatients) ListByOwner(_ context.Context, ownerID int64) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	categories map[int64]*model.Category
	packages   map[int64]*model.ServicePackage
	nextID     int64
}

func newFakeCatalog(packages ...*model.ServicePackage) *fakeCatalog {
	f := &fakeCatalog{
		categories: map[int64]*model.Category{1: {ID: 1, Name: "Уход", IsActive: true}},
		packages:   map[int64]*model.ServicePackage{},
		nextID:     100,
	}
	for _, p := range packages {
		f.packages[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) CreateCategory(_ context.Context, c *model.Category) error {
	f.nextID++
	c.ID = f.nextID
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCatalog) GetCategory(_ context.Context, id int64) (*model.Category, error) {
	return f.categories[id], nil
}

func (f *fakeCatalog) ListCategories(_ context.Context, activeOnly bool) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range f.categories {
		if c.IsActive || !activeOnly {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SetCategoryActive(_ context.Context, id int64, active bool) error {
	f.categories[id].IsActive = active
	return nil
}

func (f *fakeCatalog) CreatePackage(_ context.Context, p *model.ServicePackage) error {
	f.nextID++
	p.ID = f.nextID
	f.packages[p.ID] = p
	return nil
}

func (f *fakeCatalog) GetPackage(_ context.Context, id int64) (*model.ServicePackage, error) {
	return f.packages[id], nil
}

func (f *fakeCatalog) GetPackagesByIDs(_ context.Context, ids []int64) (map[int64]*model.ServicePackage, error) {
	out := map[int64]*model.ServicePackage{}
	for _, id := range ids {
		if p, ok := f.packages[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListPackages(_ context.Context, categoryID int64, activeOnly bool) ([]*model.ServicePackage, error) {
	var out []*model.ServicePackage
	for _, p := range f.packages {
		if p.CategoryID == categoryID && (p.IsActive || !activeOnly) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) SetPackageActive(_ context.Context, id int64, active bool) error {
	f.packages[id].IsActive = active
	return nil
}

type fakeAppointments struct {
	byID   map[int64]*model.Appointment
	nextID int64
}

func newFakeAppointments(appointments ...*model.Appointment) *fakeAppointments {
	f := &fakeAppointments{byID: map[int64]*model.Appointment{}, nextID: 1000}
	for _, a := range appointments {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAppointments) sorted(keep func(a *model.Appointment) bool) []*model.Appointment {
	var out []*model.Appointment
	for _, a := range f.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EstDate.Equal(out[j].EstDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].EstDate.Before(out[j].EstDate)
	})
	return out
}

func (f *fakeAppointments) Create(_ context.Context, a *model.Appointment) error {
	f.nextID++
	a.ID = f.nextID
	stored := *a
	f.byID[a.ID] = &stored
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointments) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool { return a.GroupID == groupID }), nil
}

func (f *fakeAppointments) ListByOwner(_ context.Context, _ int64, from time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool { return !a.EstDate.Before(from) }), nil
}

func (f *fakeAppointments) ListForPatient(_ context.Context, patientID int64, from, to time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.PatientID == patientID && a.Status.IsActive() && !a.EstDate.Before(from) && a.EstDate.Before(to)
	}), nil
}

func (f *fakeAppointments) ListUnassigned(_ context.Context, from time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.Status == model.AppointmentStatusPending && a.NursingID == nil && !a.EstDate.Before(from)
	}), nil
}

func (f *fakeAppointments) ListForNurse(_ context.Context, nurseID int64, from, to time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.NursingID != nil && *a.NursingID == nurseID && a.Status != model.AppointmentStatusCanceled &&
			!a.EstDate.Before(from) && a.EstDate.Before(to)
	}), nil
}

func (f *fakeAppointments) ListBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.Status != model.AppointmentStatusCanceled && !a.EstDate.Before(from) && a.EstDate.Before(to)
	}), nil
}

func (f *fakeAppointments) ListActiveBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.Status.IsActive() && !a.EstDate.Before(from) && a.EstDate.Before(to)
	}), nil
}

func (f *fakeAppointments) ListNurseOverlapping(_ context.Context, nurseID int64, start, end time.Time) ([]*model.Appointment, error) {
	return f.sorted(func(a *model.Appointment) bool {
		return a.NursingID != nil && *a.NursingID == nurseID && a.Status.IsActive() &&
			a.EstDate.Before(end) && start.Before(a.EndsAt())
	}), nil
}

func (f *fakeAppointments) AssignNurse(_ context.Context, id, nurseID int64) error {
	a, ok := f.byID[id]
	if !ok || !a.Status.IsActive() {
		return errors.New("appointment not found or closed")
	}
	a.NursingID = &nurseID
	a.Status = model.AppointmentStatusAssigned
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("appointment not found")
	}
	a.Status = status
	return nil
}

func (f *fakeAppointments) CancelGroupFrom(_ context.Context, groupID uuid.UUID, from time.Time) (int64, error) {
	var n int64
	for _, a := range f.byID {
		if a.GroupID == groupID && a.EstDate.After(from) && a.Status.IsActive() {
			a.Status = model.AppointmentStatusCanceled
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointments) CompleteFinished(_ context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	for _, a := range f.sorted(func(a *model.Appointment) bool { return true }) {
		if a.Status == model.AppointmentStatusAssigned && !a.EndsAt().After(now) {
			a.Status = model.AppointmentStatusCompleted
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}

type fakeReports struct {
	byID   map[int64]*model.MedicalReport
	nextID int64

	beforeReview func(id int64) // вызывается перед обновлением, имитирует параллельное рассмотрение
}

func newFakeReports() *fakeReports {
	return &fakeReports{byID: map[int64]*model.MedicalReport{}}
}

func (f *fakeReports) Create(_ context.Context, rep *model.MedicalReport) error {
	f.nextID++
	rep.ID = f.nextID
	stored := *rep
	f.byID[rep.ID] = &stored
	return nil
}

func (f *fakeReports) GetByID(_ context.Context, id int64) (*model.MedicalReport, error) {
	rep, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *rep
	return &copied, nil
}

func (f *fakeReports) ListPending(_ context.Context) ([]*model.MedicalReport, error) {
	var out []*model.MedicalReport
	for _, r := range f.byID {
		if r.Status == model.ReportStatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) ListByAppointment(_ context.Context, appointmentID int64) ([]*model.MedicalReport, error) {
	var out []*model.MedicalReport
	for _, r := range f.byID {
		if r.AppointmentID == appointmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) Review(_ context.Context, id, reviewerID int64, status model.ReportStatus, comment string, at time.Time) error {
	if f.beforeReview != nil {
		f.beforeReview(id)
	}
	r, ok := f.byID[id]
	if !ok || r.Status != model.ReportStatusPending {
		return fmt.Errorf("report %d: %w", id, model.ErrReportReviewed)
	}
	r.Status = status
	r.ReviewerID = &reviewerID
	r.ReviewComment = comment
	r.ReviewedAt = &at
	return nil
}

// fixture общий набор данных для тестов

var testNow = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	clock        scheduling.FixedClock
	tx           *fakeTx
	users        *fakeUsers
	patients     *fakePatients
	catalog      *fakeCatalog
	appointments *fakeAppointments
	reports      *fakeReports

	client  *model.User
	nurse   *model.User
	nurse2  *model.User
	manager *model.User
	admin   *model.User
	patient *model.Patient
	course  *model.ServicePackage
	single  *model.ServicePackage
}

func newFixture() *fixture {
	f := &fixture{
		clock:   scheduling.FixedClock{T: testNow},
		tx:      &fakeTx{},
		client:  &model.User{ID: 1, TelegramID: 1001, FirstName: "Анна", Role: model.RoleClient},
		nurse:   &model.User{ID: 2, TelegramID: 1002, FirstName: "Ольга", Role: model.RoleNurse},
		nurse2:  &model.User{ID: 3, TelegramID: 1003, FirstName: "Ирина", Role: model.RoleNurse},
		manager: &model.User{ID: 4, TelegramID: 1004, FirstName: "Павел", Role: model.RoleManager},
		admin:   &model.User{ID: 5, TelegramID: 1005, FirstName: "Админ", Role: model.RoleAdmin},
		patient: &model.Patient{ID: 10, OwnerID: 1, FullName: "Иван Петров", Address: "ул. Ленина, 1"},
		course: &model.ServicePackage{
			ID: 20, CategoryID: 1, Name: "Курс капельниц", Price: 900000,
			SessionDuration: 45, ComboDays: 3, TimeInterval: 3, IsActive: true,
		},
		single: &model.ServicePackage{
			ID: 21, CategoryID: 1, Name: "Укол", Price: 150000,
			SessionDuration: 30, ComboDays: 1, IsActive: true,
		},
	}

	f.users = newFakeUsers(f.client, f.nurse, f.nurse2, f.manager, f.admin)
	f.patients = newFakePatients(f.patient)
	f.catalog = newFakeCatalog(f.course, f.single)
	f.appointments = newFakeAppointments()
	f.reports = newFakeReports()
	return f
}

func (f *fixture) policy() SchedulePolicy {
	return SchedulePolicy{
		Window:      scheduling.DayWindow{Open: "08:00", Close: "22:00"},
		StepMinutes: 30,
		HorizonDays: 60,
	}
}

func (f *fixture) bookingService() *BookingService {
	return NewBookingService(f.tx, f.users, f.patients, f.catalog, f.appointments, f.policy(), f.clock, zap.NewNop())
}

func (f *fixture) staffService() *StaffService {
	return NewStaffService(f.tx, f.users, f.patients, f.catalog, f.appointments, f.clock, zap.NewNop())
}

func (f *fixture) reportService() *ReportService {
	return NewReportService(f.reports, f.appointments, f.clock, zap.NewNop())
}

func session(date time.Time, start string, duration int) scheduling.SelectedDateTime {
	startMin, _ := scheduling.ParseClock(start)
	slot := scheduling.NewTimeSlot(startMin, duration)
	return scheduling.SelectedDateTime{Date: date, TimeSlot: slot, ISOString: scheduling.ToISO(date, slot)}
}

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) addAppointment(a *model.Appointment) *model.Appointment {
	f.appointments.nextID++
	a.ID = f.appointments.nextID
	if a.GroupID == uuid.Nil {
		a.GroupID = uuid.New()
	}
	f.appointments.byID[a.ID] = a
	return a
}
