package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

// FormatPackageInfo карточка пакета услуг
func FormatPackageInfo(p *model.ServicePackage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 <b>%s</b>\n", html.EscapeString(p.Name))
	if p.Description != "" {
		fmt.Fprintf(&sb, "%s\n", html.EscapeString(p.Description))
	}
	fmt.Fprintf(&sb, "\n💰 Стоимость: %s\n", FormatPriceShort(p.Price))
	fmt.Fprintf(&sb, "⏱ Визит: %s\n", FormatDuration(p.SessionDuration))
	if p.IsMultiDay() {
		fmt.Fprintf(&sb, "🔁 %d %s, %s\n", p.ComboDays, PluralizeVisits(p.ComboDays), FormatInterval(p.TimeInterval))
	}
	return sb.String()
}

// FormatPackageShort строка пакета для списка
func FormatPackageShort(p *model.ServicePackage) string {
	visits := ""
	if p.IsMultiDay() {
		visits = fmt.Sprintf(", %d %s", p.ComboDays, PluralizeVisits(p.ComboDays))
	}
	return fmt.Sprintf("%s (%s%s)", p.Name, FormatPriceShort(p.Price), visits)
}

// FormatAppointmentLine одна строка визита: "09.04.2025 (Ср) 08:00-08:45 ✅"
func FormatAppointmentLine(a *model.Appointment) string {
	display := GetAppointmentStatusDisplay(a.Status)
	return fmt.Sprintf("%s %s %s",
		FormatDateWithWeekday(a.EstDate),
		FormatTimeRange(a.EstDate, a.EndsAt()),
		display.Emoji,
	)
}

// FormatAppointmentInfo подробности визита
func FormatAppointmentInfo(a *model.Appointment, nurse *model.User) string {
	var sb strings.Builder
	display := GetAppointmentStatusDisplay(a.Status)

	fmt.Fprintf(&sb, "🩺 <b>Визит #%d</b>\n\n", a.ID)
	if a.Package != nil {
		fmt.Fprintf(&sb, "📦 %s", html.EscapeString(a.Package.Name))
		if a.Package.IsMultiDay() {
			fmt.Fprintf(&sb, " (визит %d из %d)", a.SessionIndex+1, a.Package.ComboDays)
		}
		sb.WriteString("\n")
	}
	if a.Patient != nil {
		fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(a.Patient.FullName))
		if a.Patient.Address != "" {
			fmt.Fprintf(&sb, "🏠 %s\n", html.EscapeString(a.Patient.Address))
		}
	}
	fmt.Fprintf(&sb, "📅 %s\n", FormatDateWithWeekday(a.EstDate))
	fmt.Fprintf(&sb, "🕐 %s\n", FormatTimeRange(a.EstDate, a.EndsAt()))
	if nurse != nil {
		fmt.Fprintf(&sb, "👩‍⚕️ %s\n", html.EscapeString(nurse.DisplayName()))
	}
	fmt.Fprintf(&sb, "📊 %s %s", display.Emoji, display.Text)
	return sb.String()
}

// FormatSelectedSessions список выбранных визитов с отметкой редактируемого
func FormatSelectedSessions(selected []scheduling.SelectedDateTime, total, editing int) string {
	var sb strings.Builder
	for i := 0; i < total; i++ {
		marker := "▫️"
		if i == editing {
			marker = "✏️"
		}
		if i < len(selected) {
			s := selected[i]
			fmt.Fprintf(&sb, "%s %d. %s %s\n", marker, i+1, FormatDateWithWeekday(s.Date), s.TimeSlot.Display)
			continue
		}
		fmt.Fprintf(&sb, "%s %d. не выбран\n", marker, i+1)
	}
	return sb.String()
}

// FormatReport текст отчёта для проверки
func FormatReport(r *model.MedicalReport, a *model.Appointment, nurse *model.User) string {
	var sb strings.Builder
	display := GetReportStatusDisplay(r.Status)

	fmt.Fprintf(&sb, "📝 <b>Отчёт #%d</b> %s %s\n", r.ID, display.Emoji, display.Text)
	if nurse != nil {
		fmt.Fprintf(&sb, "👩‍⚕️ %s\n", html.EscapeString(nurse.DisplayName()))
	}
	if a != nil {
		fmt.Fprintf(&sb, "🩺 Визит #%d, %s\n", a.ID, FormatDateTime(a.EstDate))
		if a.Patient != nil {
			fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(a.Patient.FullName))
		}
	}
	fmt.Fprintf(&sb, "\n%s", html.EscapeString(r.Content))
	if r.ReviewComment != "" {
		fmt.Fprintf(&sb, "\n\n💬 %s", html.EscapeString(r.ReviewComment))
	}
	return sb.String()
}

// FormatPatientInfo карточка пациента
func FormatPatientInfo(p *model.Patient) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>%s</b>", html.EscapeString(p.FullName))
	if p.BirthYear > 0 {
		fmt.Fprintf(&sb, ", %d г.р.", p.BirthYear)
	}
	sb.WriteString("\n")
	if p.Address != "" {
		fmt.Fprintf(&sb, "🏠 %s\n", html.EscapeString(p.Address))
	}
	if p.Phone != "" {
		fmt.Fprintf(&sb, "📞 %s\n", html.EscapeString(p.Phone))
	}
	if p.Notes != "" {
		fmt.Fprintf(&sb, "📋 %s\n", html.EscapeString(p.Notes))
	}
	return sb.String()
}
