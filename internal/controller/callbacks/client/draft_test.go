package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/Freeeeeet/homecare_bot/internal/service"
)

// понедельник, 10:00
var testNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func newSelection(t *testing.T, plan scheduling.Plan, dates ...time.Time) *scheduling.Selection {
	t.Helper()
	sel := scheduling.NewSelection(plan, scheduling.FixedClock{T: testNow})
	for _, d := range dates {
		require.True(t, sel.SelectDate(d), "select %s", d.Format("2006-01-02"))
		require.True(t, sel.SelectSlot(scheduling.NewTimeSlot(10*60, 60)))
	}
	return sel
}

func TestCalendarMark(t *testing.T) {
	lastDay := lastBookableDay(testNow, 60) // 1 августа

	free := scheduling.Plan{ComboDays: 3}
	fixed := scheduling.Plan{ComboDays: 3, TimeInterval: 2}

	editMiddle := newSelection(t, fixed, day(6, 3), day(6, 6), day(6, 9))
	require.True(t, editMiddle.EditDay(1))

	cases := []struct {
		name string
		sel  *scheduling.Selection
		day  time.Time
		want keyboard.DayMark
	}{
		{"free: yesterday", newSelection(t, free), day(6, 1), keyboard.DayDisabled},
		{"free: today", newSelection(t, free), day(6, 2), keyboard.DayAvailable},
		{"free: series ends on last day", newSelection(t, free), day(7, 30), keyboard.DayAvailable},
		{"free: series ends past horizon", newSelection(t, free), day(7, 31), keyboard.DayDisabled},
		{"free: past horizon", newSelection(t, free), day(8, 2), keyboard.DayDisabled},
		{"free: earlier session locked", newSelection(t, free, day(6, 3)), day(6, 3), keyboard.DayLocked},
		{"free: before earlier session", newSelection(t, free, day(6, 3)), day(6, 2), keyboard.DayDisabled},
		{"free: after earlier session", newSelection(t, free, day(6, 3)), day(6, 4), keyboard.DayAvailable},
		{"free: second session near horizon", newSelection(t, free, day(6, 3)), day(7, 31), keyboard.DayAvailable},

		{"fixed: first session fits", newSelection(t, fixed), day(7, 26), keyboard.DayAvailable},
		{"fixed: first session too late", newSelection(t, fixed), day(7, 27), keyboard.DayDisabled},
		{"fixed: scheduled day suggested", newSelection(t, fixed, day(6, 3)), day(6, 6), keyboard.DaySuggested},
		{"fixed: off-schedule day", newSelection(t, fixed, day(6, 3)), day(6, 5), keyboard.DayDisabled},
		{"fixed: earlier session locked", newSelection(t, fixed, day(6, 3)), day(6, 3), keyboard.DayLocked},

		{"middle: earlier session locked", editMiddle, day(6, 3), keyboard.DayLocked},
		{"middle: edited session selectable", editMiddle, day(6, 6), keyboard.DaySelected},
		{"middle: later session locked", editMiddle, day(6, 9), keyboard.DayLocked},
		{"middle: off-schedule day", editMiddle, day(6, 7), keyboard.DayDisabled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, calendarMark(tc.sel, tc.day, lastDay))
		})
	}
}

func TestCalendarMark_FirstSessionEditable(t *testing.T) {
	sel := newSelection(t, scheduling.Plan{ComboDays: 2}, day(6, 3), day(6, 5))
	require.True(t, sel.EditDay(0))

	lastDay := lastBookableDay(testNow, 60)
	assert.Equal(t, keyboard.DaySelected, calendarMark(sel, day(6, 3), lastDay))
	assert.Equal(t, keyboard.DaySelected, calendarMark(sel, day(6, 5), lastDay))
}

// patientAppointments отдаёт визиты пациента; остальные методы хранилища не используются
type patientAppointments struct {
	service.AppointmentStore
	items []*model.Appointment
}

func (p *patientAppointments) ListForPatient(_ context.Context, patientID int64, from, to time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range p.items {
		if a.PatientID == patientID && a.EstDate.Before(to) && a.EndsAt().After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func testHandler(appointments service.AppointmentStore) *callbacktypes.Handler {
	clock := scheduling.FixedClock{T: testNow}
	policy := service.SchedulePolicy{
		Window:      scheduling.DayWindow{Open: "08:00", Close: "12:00"},
		StepMinutes: 60,
		HorizonDays: 60,
	}
	return &callbacktypes.Handler{
		BookingService: service.NewBookingService(nil, nil, nil, nil, appointments, policy, clock, zap.NewNop()),
		Clock:          clock,
		Location:       time.UTC,
		Logger:         zap.NewNop(),
	}
}

func testDraft(t *testing.T, plan scheduling.Plan, dates ...time.Time) *bookingDraft {
	return &bookingDraft{
		Patient: &model.Patient{ID: 7, FullName: "Иванова Мария"},
		Package: &model.ServicePackage{
			ID: 3, Name: "Капельницы", SessionDuration: 60,
			ComboDays: plan.ComboDays, TimeInterval: plan.TimeInterval,
		},
		Selection: newSelection(t, plan, dates...),
		Month:     monthStart(testNow),
	}
}

func TestBuildCalendarScreen_EditButtons(t *testing.T) {
	h := testHandler(&patientAppointments{})
	d := testDraft(t, scheduling.Plan{ComboDays: 4}, day(6, 3))

	_, markup := buildCalendarScreen(h, d)

	var edits, labels []string
	hasNext := false
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.CallbackData, "bk_edit:") {
				edits = append(edits, btn.CallbackData)
				labels = append(labels, btn.Text)
			}
			if btn.CallbackData == "bk_next" {
				hasNext = true
			}
		}
	}

	// кнопки только для выбранных визитов и следующего за ними
	assert.Equal(t, []string{"bk_edit:0", "bk_edit:1"}, edits)
	assert.Equal(t, []string{"1", "✏️2"}, labels)
	assert.False(t, hasNext)
}

func TestBuildCalendarScreen_Complete(t *testing.T) {
	h := testHandler(&patientAppointments{})
	d := testDraft(t, scheduling.Plan{ComboDays: 2, TimeInterval: 1}, day(6, 3), day(6, 5))

	text, markup := buildCalendarScreen(h, d)
	assert.Contains(t, text, "Все визиты выбраны")

	var next bool
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == "bk_next" {
				next = true
			}
			if btn.CallbackData == "bk_date:2025-06-03" {
				t.Errorf("locked session date must not be clickable")
			}
		}
	}
	assert.True(t, next)
}

func TestFreeSlots_SkipsPatientBusyTime(t *testing.T) {
	store := &patientAppointments{items: []*model.Appointment{
		{ID: 1, PatientID: 7, EstDate: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC), TotalEstDuration: 60},
		{ID: 2, PatientID: 8, EstDate: time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC), TotalEstDuration: 60},
	}}
	h := testHandler(store)
	d := testDraft(t, scheduling.Plan{ComboDays: 1})
	require.True(t, d.Selection.SelectDate(day(6, 3)))

	slots, err := freeSlots(context.Background(), h, d)
	require.NoError(t, err)

	var starts []string
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []string{"08:00", "09:00", "11:00"}, starts)
}

func TestFreeSlots_TodayStartsAfterNow(t *testing.T) {
	h := testHandler(&patientAppointments{})
	d := testDraft(t, scheduling.Plan{ComboDays: 1})

	slots, err := freeSlots(context.Background(), h, d)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00", slots[0].Start)
	assert.Equal(t, "11:00", slots[1].Start)
}
