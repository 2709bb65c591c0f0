package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/controller/state"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// reportWindowWeeks за сколько недель назад показывать визиты без отчёта
const reportWindowWeeks = 2

// visitReport визит и последний отчёт по нему
type visitReport struct {
	Appointment *model.Appointment
	Report      *model.MedicalReport
}

// recentVisits начавшиеся визиты медсестры за последние недели, новые сверху
func recentVisits(ctx context.Context, h *callbacktypes.Handler, nurse *model.User) ([]visitReport, error) {
	now := h.Now()
	thisWeek := scheduling.StartOfWeek(now)

	var visits []visitReport
	for w := 0; w < reportWindowWeeks; w++ {
		appointments, err := h.StaffService.WeekSchedule(ctx, &nurse.ID, scheduling.AddDays(thisWeek, -7*w))
		if err != nil {
			return nil, err
		}
		for i := len(appointments) - 1; i >= 0; i-- {
			a := appointments[i]
			if a.Status == model.AppointmentStatusCanceled || a.EstDate.After(now) {
				continue
			}

			reports, err := h.ReportService.ListForAppointment(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			var last *model.MedicalReport
			if len(reports) > 0 {
				last = reports[len(reports)-1]
			}
			visits = append(visits, visitReport{Appointment: a, Report: last})
		}
	}
	return visits, nil
}

// BuildReportsScreen визиты медсестры с состоянием отчётов
func BuildReportsScreen(ctx context.Context, h *callbacktypes.Handler, nurse *model.User) (string, *models.InlineKeyboardMarkup, error) {
	visits, err := recentVisits(ctx, h, nurse)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("📝 <b>Отчёты о визитах</b>\n\n")
	if len(visits) == 0 {
		sb.WriteString("За последние две недели визитов не было.")
	}

	kb := keyboard.NewBuilder()
	missing := 0
	for _, v := range visits {
		line := formatting.FormatAppointmentLine(v.Appointment)
		if v.Appointment.Patient != nil {
			line += " · " + v.Appointment.Patient.FullName
		}

		if v.Report == nil || v.Report.Status == model.ReportStatusRejected {
			missing++
			kb.Row(keyboard.Button("✍️ "+line, fmt.Sprintf("rp_new:%d", v.Appointment.ID)))
			continue
		}
		display := formatting.GetReportStatusDisplay(v.Report.Status)
		kb.Row(keyboard.Noop(display.Emoji + " " + line))
	}
	if missing > 0 {
		fmt.Fprintf(&sb, "Ждут отчёта: %d. Нажмите на визит, чтобы написать отчёт.", missing)
	}
	kb.Row(keyboard.Button("🗓 Моё расписание", string(ScopeMine)+":0"))
	kb.AddBackToMainButton()

	return sb.String(), kb.Build(), nil
}

// HandleReports показывает визиты, по которым нужен отчёт
func HandleReports(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStaff(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb, err := BuildReportsScreen(ctx, h, hc.User)
		if err != nil {
			common.HandleError(hc, err, "list_reports")
			return
		}
		hc.EditMessage(text, kb)
		hc.Answer("")
	})
}

// HandleNewReport просит медсестру написать отчёт о визите
func HandleNewReport(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStaff(ctx, b, callback, h, func(hc *common.HandlerContext) {
		appointmentID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		a, err := h.BookingService.GetAppointment(ctx, appointmentID)
		if err != nil {
			common.HandleError(hc, err, "get_appointment")
			return
		}
		if a.NursingID == nil || *a.NursingID != hc.User.ID {
			hc.AnswerAlert(common.ErrorMessage(common.ErrNotStaff))
			return
		}

		hc.ClearState()
		hc.EnterState(state.StateReportContent)
		hc.SetData(state.KeyAppointment, a.ID)

		hc.EditMessage(formatting.FormatAppointmentInfo(a, nil)+
			"\n\n✍️ Опишите визит одним сообщением: выполненные процедуры, состояние пациента, рекомендации.\n\n"+
			"Для отмены используйте /cancel", nil)
		hc.Answer("")
	})
}
