package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

type stubStaff struct {
	from, to  time.Time
	reminders []service.Reminder
	completed int
}

func (s *stubStaff) CompleteFinished(context.Context) (int, error) {
	s.completed++
	return 0, nil
}

func (s *stubStaff) UpcomingBetween(_ context.Context, from, to time.Time) ([]service.Reminder, error) {
	s.from, s.to = from, to
	return s.reminders, nil
}

type stubNotifier struct {
	sent []int64
}

func (n *stubNotifier) NotifyReminder(_ context.Context, r service.Reminder) error {
	if r.ClientTelegramID == 0 {
		return errors.New("no recipient")
	}
	n.sent = append(n.sent, r.Appointment.ID)
	return nil
}

func TestSendReminders_Tomorrow(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2025, 4, 1, 19, 0, 0, 0, loc)

	staff := &stubStaff{reminders: []service.Reminder{
		{Appointment: &model.Appointment{ID: 1}, ClientTelegramID: 10},
		{Appointment: &model.Appointment{ID: 2}},
		{Appointment: &model.Appointment{ID: 3}, ClientTelegramID: 30},
	}}
	notifier := &stubNotifier{}

	s := NewScheduler(staff, notifier, scheduling.FixedClock{T: now}, loc, 19, zap.NewNop())
	s.SendReminders(context.Background())

	assert.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, loc), staff.from)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, loc), staff.to)
	assert.Equal(t, []int64{1, 3}, notifier.sent)
}

func TestScheduler_StartStop(t *testing.T) {
	staff := &stubStaff{}
	s := NewScheduler(staff, &stubNotifier{}, scheduling.SystemClock{Location: time.UTC}, time.UTC, 19, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_InvalidHour(t *testing.T) {
	s := NewScheduler(&stubStaff{}, &stubNotifier{}, scheduling.SystemClock{}, time.UTC, 42, zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
}
