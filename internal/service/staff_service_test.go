package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

func TestAvailableNurses(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PatientID:        99,
		NursingID:        &f.nurse.ID,
		EstDate:          time.Date(2025, 4, 9, 8, 30, 0, 0, time.UTC),
		TotalEstDuration: 60,
		Status:           model.AppointmentStatusAssigned,
	})

	start := time.Date(2025, 4, 9, 8, 0, 0, 0, time.UTC)
	nurses, err := f.staffService().AvailableNurses(context.Background(), []scheduling.Interval{
		{Start: start, End: start.Add(45 * time.Minute)},
	})
	require.NoError(t, err)
	require.Len(t, nurses, 1)
	assert.Equal(t, f.nurse2.ID, nurses[0].ID)

	// стык интервалов не считается пересечением
	nurses, err = f.staffService().AvailableNurses(context.Background(), []scheduling.Interval{
		{Start: start, End: start.Add(30 * time.Minute)},
	})
	require.NoError(t, err)
	assert.Len(t, nurses, 2)
}

func TestAssignNurse(t *testing.T) {
	f := newFixture()
	a := f.addAppointment(&model.Appointment{
		PackageID:        f.single.ID,
		PatientID:        f.patient.ID,
		EstDate:          time.Date(2025, 4, 9, 8, 0, 0, 0, time.UTC),
		TotalEstDuration: 30,
		Status:           model.AppointmentStatusPending,
	})
	svc := f.staffService()

	_, err := svc.AssignNurse(context.Background(), f.client, a.ID, f.nurse.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AssignNurse(context.Background(), f.manager, a.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrNurseNotFound)

	assigned, err := svc.AssignNurse(context.Background(), f.manager, a.ID, f.nurse.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusAssigned, assigned.Status)
	assert.Equal(t, f.nurse.ID, *f.appointments.byID[a.ID].NursingID)
	assert.Equal(t, f.single.Name, assigned.Package.Name)

	// повторное назначение той же медсестры не конфликтует с самим визитом
	_, err = svc.AssignNurse(context.Background(), f.manager, a.ID, f.nurse.ID)
	require.NoError(t, err)
}

func TestAssignNurse_Conflict(t *testing.T) {
	f := newFixture()
	at := time.Date(2025, 4, 9, 8, 0, 0, 0, time.UTC)
	f.addAppointment(&model.Appointment{
		PatientID: 99, NursingID: &f.nurse.ID, EstDate: at, TotalEstDuration: 60,
		Status: model.AppointmentStatusAssigned,
	})
	a := f.addAppointment(&model.Appointment{
		PatientID: f.patient.ID, EstDate: at.Add(30 * time.Minute), TotalEstDuration: 30,
		Status: model.AppointmentStatusPending,
	})

	_, err := f.staffService().AssignNurse(context.Background(), f.manager, a.ID, f.nurse.ID)
	assert.ErrorIs(t, err, ErrNurseBusy)
	assert.Nil(t, f.appointments.byID[a.ID].NursingID)
}

func TestAssignGroup(t *testing.T) {
	f := newFixture()
	group := uuid.New()
	var first *model.Appointment
	for i, d := range []int{9, 13, 17} {
		a := f.addAppointment(&model.Appointment{
			GroupID: group, SessionIndex: i, PackageID: f.course.ID, PatientID: f.patient.ID,
			EstDate: time.Date(2025, 4, d, 8, 0, 0, 0, time.UTC), TotalEstDuration: 45,
			Status: model.AppointmentStatusPending,
		})
		if first == nil {
			first = a
		}
	}

	assigned, err := f.staffService().AssignGroup(context.Background(), f.admin, first.ID, f.nurse2.ID)
	require.NoError(t, err)
	assert.Len(t, assigned, 3)
	for _, a := range f.appointments.byID {
		require.NotNil(t, a.NursingID)
		assert.Equal(t, f.nurse2.ID, *a.NursingID)
	}
}

func TestWeekSchedule(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PackageID: f.single.ID, PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: time.Date(2025, 4, 8, 9, 0, 0, 0, time.UTC), TotalEstDuration: 30,
		Status: model.AppointmentStatusAssigned,
	})
	f.addAppointment(&model.Appointment{
		PackageID: f.single.ID, PatientID: f.patient.ID, NursingID: &f.nurse2.ID,
		EstDate: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC), TotalEstDuration: 30,
		Status: model.AppointmentStatusAssigned,
	})
	f.addAppointment(&model.Appointment{
		PackageID: f.single.ID, PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: time.Date(2025, 4, 15, 9, 0, 0, 0, time.UTC), TotalEstDuration: 30,
		Status: model.AppointmentStatusAssigned,
	})
	svc := f.staffService()

	mine, err := svc.WeekSchedule(context.Background(), &f.nurse.ID, date(4, 9))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 8, mine[0].EstDate.Day())

	all, err := svc.WeekSchedule(context.Background(), nil, date(4, 7))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCompleteFinished(t *testing.T) {
	f := newFixture()
	done := f.addAppointment(&model.Appointment{
		NursingID: &f.nurse.ID, EstDate: testNow.Add(-2 * time.Hour), TotalEstDuration: 60,
		Status: model.AppointmentStatusAssigned,
	})
	running := f.addAppointment(&model.Appointment{
		NursingID: &f.nurse.ID, EstDate: testNow.Add(-30 * time.Minute), TotalEstDuration: 60,
		Status: model.AppointmentStatusAssigned,
	})

	n, err := f.staffService().CompleteFinished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.AppointmentStatusCompleted, f.appointments.byID[done.ID].Status)
	assert.Equal(t, model.AppointmentStatusAssigned, f.appointments.byID[running.ID].Status)
}

func TestUpcomingBetween(t *testing.T) {
	f := newFixture()
	f.addAppointment(&model.Appointment{
		PackageID: f.single.ID, PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC), TotalEstDuration: 30,
		Status: model.AppointmentStatusAssigned,
	})
	f.addAppointment(&model.Appointment{
		PackageID: f.single.ID, PatientID: f.patient.ID,
		EstDate: time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC), TotalEstDuration: 30,
		Status: model.AppointmentStatusPending,
	})

	reminders, err := f.staffService().UpcomingBetween(context.Background(), date(4, 2), date(4, 3))
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, f.client.TelegramID, reminders[0].ClientTelegramID)
	assert.Equal(t, f.nurse.TelegramID, reminders[0].NurseTelegramID)
	assert.Zero(t, reminders[1].NurseTelegramID)
}
