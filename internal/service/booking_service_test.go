package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

func courseRequest(f *fixture) BookingRequest {
	return BookingRequest{
		OwnerID:   f.client.ID,
		PatientID: f.patient.ID,
		PackageID: f.course.ID,
		Sessions: []scheduling.SelectedDateTime{
			session(date(4, 9), "08:00", 45),
			session(date(4, 13), "08:30", 45),
			session(date(4, 17), "10:00", 45),
		},
	}
}

func TestBookPackage_CreatesGroup(t *testing.T) {
	f := newFixture()
	svc := f.bookingService()

	appointments, err := svc.BookPackage(context.Background(), courseRequest(f))
	require.NoError(t, err)
	require.Len(t, appointments, 3)

	group := appointments[0].GroupID
	for i, a := range appointments {
		assert.Equal(t, group, a.GroupID)
		assert.Equal(t, i, a.SessionIndex)
		assert.Equal(t, model.AppointmentStatusPending, a.Status)
		assert.Nil(t, a.NursingID)
		assert.Equal(t, 45, a.TotalEstDuration)
	}
	assert.Equal(t, time.Date(2025, 4, 13, 8, 30, 0, 0, time.UTC), appointments[1].EstDate)
	assert.Equal(t, 1, f.tx.calls)
	assert.Len(t, f.appointments.byID, 3)
}

func TestBookPackage_WithNurse(t *testing.T) {
	f := newFixture()
	svc := f.bookingService()

	req := courseRequest(f)
	req.NurseID = &f.nurse.ID

	appointments, err := svc.BookPackage(context.Background(), req)
	require.NoError(t, err)
	for _, a := range appointments {
		assert.Equal(t, model.AppointmentStatusAssigned, a.Status)
		require.NotNil(t, a.NursingID)
		assert.Equal(t, f.nurse.ID, *a.NursingID)
	}
	assert.Equal(t, []int64{f.nurse.ID}, f.users.locked)
}

func TestBookPackage_RejectsWrongOffsets(t *testing.T) {
	f := newFixture()
	svc := f.bookingService()

	req := courseRequest(f)
	req.Sessions[1] = session(date(4, 14), "08:30", 45)

	_, err := svc.BookPackage(context.Background(), req)
	assert.ErrorIs(t, err, scheduling.ErrInvalidSchedule)
	assert.Empty(t, f.appointments.byID)
}

func TestBookPackage_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *fixture, req *BookingRequest)
		want   error
	}{
		{
			name:   "foreign patient",
			mutate: func(f *fixture, req *BookingRequest) { req.OwnerID = f.nurse.ID },
			want:   ErrPatientNotFound,
		},
		{
			name:   "inactive package",
			mutate: func(f *fixture, req *BookingRequest) { f.course.IsActive = false },
			want:   ErrPackageNotFound,
		},
		{
			name: "session count",
			mutate: func(f *fixture, req *BookingRequest) {
				req.Sessions = req.Sessions[:2]
			},
			want: scheduling.ErrInvalidSchedule,
		},
		{
			name: "slot duration mismatch",
			mutate: func(f *fixture, req *BookingRequest) {
				req.Sessions[0] = session(date(4, 9), "08:00", 60)
			},
			want: scheduling.ErrInvalidSchedule,
		},
		{
			name: "outside working hours",
			mutate: func(f *fixture, req *BookingRequest) {
				req.Sessions[2] = session(date(4, 17), "21:30", 45)
			},
			want: ErrOutsideWorkingHours,
		},
		{
			name: "past session",
			mutate: func(f *fixture, req *BookingRequest) {
				req.PackageID = f.single.ID
				req.Sessions = []scheduling.SelectedDateTime{session(date(4, 1), "09:00", 30)}
			},
			want: ErrSessionInPast,
		},
		{
			name: "beyond horizon",
			mutate: func(f *fixture, req *BookingRequest) {
				req.PackageID = f.single.ID
				req.Sessions = []scheduling.SelectedDateTime{session(date(7, 1), "09:00", 30)}
			},
			want: ErrBeyondHorizon,
		},
		{
			name:   "not a nurse",
			mutate: func(f *fixture, req *BookingRequest) { req.NurseID = &f.manager.ID },
			want:   ErrNurseNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := courseRequest(f)
			tc.mutate(f, &req)

			_, err := f.bookingService().BookPackage(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.appointments.byID)
		})
	}
}

func TestBookPackage_NurseBusy(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PatientID:        99,
		NursingID:        &f.nurse.ID,
		EstDate:          time.Date(2025, 4, 13, 8, 0, 0, 0, time.UTC),
		TotalEstDuration: 60,
		Status:           model.AppointmentStatusAssigned,
	})

	req := courseRequest(f)
	req.NurseID = &f.nurse.ID

	_, err := f.bookingService().BookPackage(context.Background(), req)
	assert.ErrorIs(t, err, ErrNurseBusy)
}

func TestBookPackage_PatientBusy(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PatientID:        f.patient.ID,
		EstDate:          time.Date(2025, 4, 9, 7, 30, 0, 0, time.UTC),
		TotalEstDuration: 60,
		Status:           model.AppointmentStatusPending,
	})

	_, err := f.bookingService().BookPackage(context.Background(), courseRequest(f))
	assert.ErrorIs(t, err, ErrPatientBusy)
}

func TestBusyIntervals(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PatientID:        f.patient.ID,
		EstDate:          time.Date(2025, 4, 9, 9, 0, 0, 0, time.UTC),
		TotalEstDuration: 30,
		Status:           model.AppointmentStatusPending,
	})
	f.addAppointment(&model.Appointment{
		PatientID:        f.patient.ID,
		EstDate:          time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC),
		TotalEstDuration: 30,
		Status:           model.AppointmentStatusCanceled,
	})

	busy, err := f.bookingService().BusyIntervals(context.Background(), f.patient.ID, date(4, 9))
	require.NoError(t, err)
	require.Len(t, busy, 1)

	slots := scheduling.GenerateSlots("08:00", 45, scheduling.DayWindow{Open: "08:00", Close: "10:15"}, 30)
	free := scheduling.FilterBusy(date(4, 9), slots, busy)
	require.Len(t, free, 2)
	assert.Equal(t, "08:00", free[0].Start)
	assert.Equal(t, "09:30", free[1].Start)
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture()
	a := f.addAppointment(&model.Appointment{
		PackageID:        f.single.ID,
		PatientID:        f.patient.ID,
		EstDate:          time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
		TotalEstDuration: 30,
		Status:           model.AppointmentStatusPending,
	})
	svc := f.bookingService()

	_, err := svc.CancelAppointment(context.Background(), f.nurse, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	canceled, err := svc.CancelAppointment(context.Background(), f.client, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, canceled.Status)

	_, err = svc.CancelAppointment(context.Background(), f.client, a.ID)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
}

func TestCancelGroup(t *testing.T) {
	f := newFixture()
	svc := f.bookingService()

	appointments, err := svc.BookPackage(context.Background(), courseRequest(f))
	require.NoError(t, err)

	n, err := svc.CancelGroup(context.Background(), f.manager, appointments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = svc.CancelGroup(context.Background(), f.client, appointments[0].ID)
	assert.ErrorIs(t, err, ErrAppointmentClosed)
}

func TestListByOwner_AttachesDetails(t *testing.T) {
	f := newFixture()
	svc := f.bookingService()

	_, err := svc.BookPackage(context.Background(), courseRequest(f))
	require.NoError(t, err)

	list, err := svc.ListByOwner(context.Background(), f.client.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, f.course.Name, list[0].Package.Name)
	assert.Equal(t, f.patient.FullName, list[0].Patient.FullName)
}
