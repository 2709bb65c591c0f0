package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/homecare_bot/internal/model"
)

func TestReportLifecycle(t *testing.T) {
	f := newFixture()
	a := f.addAppointment(&model.Appointment{
		PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: testNow.Add(-time.Hour), TotalEstDuration: 45,
		Status: model.AppointmentStatusCompleted,
	})
	svc := f.reportService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, f.nurse2, a.ID, "Давление 120/80")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Submit(ctx, f.nurse, a.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyReport)

	rep, err := svc.Submit(ctx, f.nurse, a.ID, "Давление 120/80, капельница поставлена")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusPending, rep.Status)

	_, err = svc.Submit(ctx, f.nurse, a.ID, "ещё раз")
	assert.ErrorIs(t, err, ErrReportExists)

	_, err = svc.ListPending(ctx, f.nurse)
	assert.ErrorIs(t, err, ErrForbidden)

	pending, err := svc.ListPending(ctx, f.manager)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	rejected, err := svc.Reject(ctx, f.manager, rep.ID, "Нет данных о пульсе")
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusRejected, rejected.Status)
	assert.Equal(t, "Нет данных о пульсе", rejected.ReviewComment)

	_, err = svc.Approve(ctx, f.manager, rep.ID)
	assert.ErrorIs(t, err, ErrReportReviewed)

	// после отклонения можно отправить исправленный отчёт
	second, err := svc.Submit(ctx, f.nurse, a.ID, "Давление 120/80, пульс 72")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, f.admin, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, testNow, *approved.ReviewedAt)

	history, err := svc.ListForAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSubmit_FutureAppointment(t *testing.T) {
	f := newFixture()
	a := f.addAppointment(&model.Appointment{
		PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: testNow.Add(time.Hour), TotalEstDuration: 45,
		Status: model.AppointmentStatusAssigned,
	})

	_, err := f.reportService().Submit(context.Background(), f.nurse, a.ID, "рано")
	assert.ErrorIs(t, err, ErrAppointmentNotStarted)
}

func TestReview_ConcurrentReviewer(t *testing.T) {
	f := newFixture()
	a := f.addAppointment(&model.Appointment{
		PatientID: f.patient.ID, NursingID: &f.nurse.ID,
		EstDate: testNow.Add(-time.Hour), TotalEstDuration: 45,
		Status: model.AppointmentStatusCompleted,
	})
	svc := f.reportService()
	ctx := context.Background()

	rep, err := svc.Submit(ctx, f.nurse, a.ID, "Давление 120/80")
	require.NoError(t, err)

	// второй менеджер успевает одобрить отчёт между чтением и обновлением
	f.reports.beforeReview = func(id int64) {
		f.reports.byID[id].Status = model.ReportStatusApproved
	}

	_, err = svc.Reject(ctx, f.manager, rep.ID, "Нет пульса")
	assert.ErrorIs(t, err, ErrReportReviewed)
}
