package staff

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Week Schedule Handlers
// ========================

// Scope чьё расписание показывать
type Scope string

const (
	ScopeMine Scope = "sc_my"  // визиты текущей медсестры
	ScopeAll  Scope = "sc_all" // все визиты, для менеджера
)

// maxCaptionLines сколько визитов перечислить под картинкой
const maxCaptionLines = 12

// WeekScreen картинка недели с подписью и навигацией
type WeekScreen struct {
	PNG      []byte
	Filename string
	Caption  string
	Keyboard *models.InlineKeyboardMarkup
}

// BuildWeekScreen рисует неделю со смещением weekOffset от текущей
func BuildWeekScreen(ctx context.Context, h *callbacktypes.Handler, user *model.User, scope Scope, weekOffset int) (*WeekScreen, error) {
	weekStart := scheduling.AddDays(scheduling.StartOfWeek(h.Now()), weekOffset*7)

	var nurseID *int64
	if scope == ScopeMine {
		nurseID = &user.ID
	}

	appointments, err := h.StaffService.WeekSchedule(ctx, nurseID, weekStart)
	if err != nil {
		return nil, err
	}

	label, err := visitLabeler(ctx, h, scope, appointments)
	if err != nil {
		return nil, err
	}

	grid := scheduling.LayoutWeek(appointments, weekStart, gridConfig(h))
	png, err := common.GenerateWeekImage(grid, common.WeekImageOptions{
		Now:   h.Now(),
		Label: label,
	})
	if err != nil {
		return nil, fmt.Errorf("render week: %w", err)
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.WeekPagination(string(scope)+":", weekOffset)...)
	if weekOffset != 0 {
		kb.Row(keyboard.Button("🔄 Текущая неделя", string(scope)+":0"))
	}
	if scope == ScopeMine && user.Role == model.RoleNurse {
		kb.Row(keyboard.Button("📝 Отчёты о визитах", "rp_list"))
	}
	kb.AddBackToMainButton()

	return &WeekScreen{
		PNG:      png,
		Filename: fmt.Sprintf("week_%s.png", weekStart.Format("2006_01_02")),
		Caption:  weekCaption(weekStart, appointments, label),
		Keyboard: kb.Build(),
	}, nil
}

// gridConfig сетка по рабочим часам сервиса
func gridConfig(h *callbacktypes.Handler) scheduling.GridConfig {
	cfg := scheduling.GridConfig{Location: h.Location}

	window := h.BookingService.Policy().Window
	open, errOpen := scheduling.ParseClock(window.Open)
	closeAt, errClose := scheduling.ParseClock(window.Close)
	if errOpen == nil && errClose == nil && closeAt > open {
		cfg.StartHour = open / 60
		cfg.EndHour = (closeAt + 59) / 60
	}
	return cfg
}

// visitLabeler подпись визита: пациент для медсестры, медсестра для менеджера
func visitLabeler(ctx context.Context, h *callbacktypes.Handler, scope Scope, appointments []*model.Appointment) (func(*model.Appointment) string, error) {
	if scope == ScopeMine {
		return func(a *model.Appointment) string {
			if a.Patient == nil {
				return ""
			}
			return a.Patient.FullName
		}, nil
	}

	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		if a.NursingID != nil {
			ids = append(ids, *a.NursingID)
		}
	}
	nurses, err := h.UserService.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return func(a *model.Appointment) string {
		if a.NursingID == nil {
			return "без медсестры"
		}
		if n := nurses[*a.NursingID]; n != nil {
			return n.DisplayName()
		}
		return ""
	}, nil
}

func weekCaption(weekStart time.Time, appointments []*model.Appointment, label func(*model.Appointment) string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 <b>%s</b>\n", formatting.FormatWeekRange(weekStart))

	if len(appointments) == 0 {
		sb.WriteString("Визитов нет")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d %s\n\n", len(appointments), formatting.PluralizeVisits(len(appointments)))
	for i, a := range appointments {
		if i == maxCaptionLines {
			fmt.Fprintf(&sb, "… и ещё %d", len(appointments)-maxCaptionLines)
			break
		}
		line := formatting.FormatAppointmentLine(a)
		if l := label(a); l != "" {
			line += " · " + html.EscapeString(l)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// HandleWeek листает недели расписания
func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	prefix, arg, _ := strings.Cut(callback.Data, ":")
	scope := Scope(prefix)

	check := common.WithStaff
	if scope == ScopeAll {
		check = common.WithManager
	}

	check(ctx, b, callback, h, func(hc *common.HandlerContext) {
		offset, err := strconv.Atoi(arg)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		screen, err := BuildWeekScreen(ctx, h, hc.User, scope, offset)
		if err != nil {
			common.HandleError(hc, err, "week_schedule")
			return
		}

		if err := hc.SendPhoto(screen.PNG, screen.Filename, screen.Caption, screen.Keyboard); err != nil {
			h.Logger.Error("Failed to send week image", zap.Error(err))
			hc.AnswerAlert("❌ Не удалось отправить расписание")
			return
		}
		hc.Answer("")
	})
}
