package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/client"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/manager"
	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/staff"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================
// Формат callback data: "<префикс>[:<аргумент>[:<аргумент>]]"

// Common callbacks
const (
	BackToMain = "back_to_main"
	Noop       = "noop"
)

// Client callbacks - booking wizard
const (
	BookStart    = "bk_start"
	BookPatient  = "bk_patient:" // bk_patient:patient_id
	BookCategory = "bk_cat:"     // bk_cat:category_id
	BookPackage  = "bk_pkg:"     // bk_pkg:package_id
	BookMonth    = "bk_month:"   // bk_month:2025-04
	BookDate     = "bk_date:"    // bk_date:2025-04-09
	BookSlot     = "bk_slot:"    // bk_slot:08:00-08:45
	BookCalendar = "bk_cal"
	BookEditDay  = "bk_edit:" // bk_edit:index
	BookNext     = "bk_next"
	BookNurse    = "bk_nurse:" // bk_nurse:nurse_id, 0 - на выбор менеджера
	BookConfirm  = "bk_confirm"
	BookCancel   = "bk_cancel"
)

// Client callbacks - bookings and patients
const (
	MyBookingsPage     = "mb_page:"          // mb_page:0
	ViewBooking        = "mb_view:"          // mb_view:appointment_id
	CancelBooking      = "mb_cancel:"        // mb_cancel:appointment_id
	ConfirmCancel      = "mb_cancel_ok:"     // mb_cancel_ok:appointment_id
	CancelGroup        = "mb_cancel_all:"    // mb_cancel_all:appointment_id
	ConfirmCancelGroup = "mb_cancel_all_ok:" // mb_cancel_all_ok:appointment_id
	PatientsList       = "pt_list"
	ViewPatient        = "pt_view:" // pt_view:patient_id
	NewPatient         = "pt_new"
)

// Staff callbacks
const (
	WeekMine   = "sc_my:"  // sc_my:week_offset
	WeekAll    = "sc_all:" // sc_all:week_offset
	ReportList = "rp_list"
	NewReport  = "rp_new:" // rp_new:appointment_id
)

// Manager callbacks
const (
	CatalogList    = "ct_list"
	ViewCategory   = "ct_cat:" // ct_cat:category_id
	NewCategory    = "ct_cat_new"
	ToggleCategory = "ct_cat_toggle:" // ct_cat_toggle:category_id
	ViewPackage    = "ct_pkg:"        // ct_pkg:package_id
	NewPackage     = "ct_pkg_new:"    // ct_pkg_new:category_id
	TogglePackage  = "ct_pkg_toggle:" // ct_pkg_toggle:package_id
	AssignPage     = "as_page:"       // as_page:0
	AssignView     = "as_view:"       // as_view:appointment_id
	AssignPick     = "as_pick:"       // as_pick:appointment_id:nurse_id
	AssignOne      = "as_one:"        // as_one:appointment_id:nurse_id
	AssignAll      = "as_all:"        // as_all:appointment_id:nurse_id
	ApprovalList   = "ap_list"
	ApprovalView   = "ap_view:" // ap_view:report_id
	ApproveReport  = "ap_ok:"   // ap_ok:report_id
	RejectReport   = "ap_no:"   // ap_no:report_id
)

// ========================
// Callback Router
// ========================

// Route маршрутизирует callback по префиксу данных.
// Более длинные префиксы проверяются раньше пересекающихся коротких.
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	// ===== Common Navigation =====
	case data == BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == Noop:
		common.HandleNoop(ctx, b, callback, h)

	// ===== Booking Wizard =====
	case data == BookStart:
		client.HandleBookStart(ctx, b, callback, h)
	case strings.HasPrefix(data, BookPatient):
		client.HandlePickPatient(ctx, b, callback, h)
	case strings.HasPrefix(data, BookCategory):
		client.HandlePickCategory(ctx, b, callback, h)
	case strings.HasPrefix(data, BookPackage):
		client.HandlePickPackage(ctx, b, callback, h)
	case strings.HasPrefix(data, BookMonth):
		client.HandleMonth(ctx, b, callback, h)
	case strings.HasPrefix(data, BookDate):
		client.HandleDate(ctx, b, callback, h)
	case strings.HasPrefix(data, BookSlot):
		client.HandleSlot(ctx, b, callback, h)
	case data == BookCalendar:
		client.HandleBackToCalendar(ctx, b, callback, h)
	case strings.HasPrefix(data, BookEditDay):
		client.HandleEditDay(ctx, b, callback, h)
	case data == BookNext:
		client.HandleNext(ctx, b, callback, h)
	case strings.HasPrefix(data, BookNurse):
		client.HandleNurse(ctx, b, callback, h)
	case data == BookConfirm:
		client.HandleConfirm(ctx, b, callback, h)
	case data == BookCancel:
		client.HandleCancelWizard(ctx, b, callback, h)

	// ===== My Bookings =====
	case strings.HasPrefix(data, MyBookingsPage):
		client.HandleMyBookingsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewBooking):
		client.HandleViewBooking(ctx, b, callback, h)
	case strings.HasPrefix(data, ConfirmCancelGroup):
		client.HandleConfirmCancelGroup(ctx, b, callback, h)
	case strings.HasPrefix(data, CancelGroup):
		client.HandleCancelGroup(ctx, b, callback, h)
	case strings.HasPrefix(data, ConfirmCancel):
		client.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, CancelBooking):
		client.HandleCancelBooking(ctx, b, callback, h)

	// ===== Patients =====
	case data == PatientsList:
		client.HandlePatients(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewPatient):
		client.HandleViewPatient(ctx, b, callback, h)
	case data == NewPatient:
		client.HandleNewPatient(ctx, b, callback, h)

	// ===== Staff: Schedule & Reports =====
	case strings.HasPrefix(data, WeekMine), strings.HasPrefix(data, WeekAll):
		staff.HandleWeek(ctx, b, callback, h)
	case data == ReportList:
		staff.HandleReports(ctx, b, callback, h)
	case strings.HasPrefix(data, NewReport):
		staff.HandleNewReport(ctx, b, callback, h)

	// ===== Manager: Catalog =====
	case data == CatalogList:
		manager.HandleCatalog(ctx, b, callback, h)
	case data == NewCategory:
		manager.HandleNewCategory(ctx, b, callback, h)
	case strings.HasPrefix(data, ToggleCategory):
		manager.HandleToggleCategory(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewCategory):
		manager.HandleCategory(ctx, b, callback, h)
	case strings.HasPrefix(data, NewPackage):
		manager.HandleNewPackage(ctx, b, callback, h)
	case strings.HasPrefix(data, TogglePackage):
		manager.HandleTogglePackage(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewPackage):
		manager.HandlePackage(ctx, b, callback, h)

	// ===== Manager: Assignment =====
	case strings.HasPrefix(data, AssignPage):
		manager.HandleAssignPage(ctx, b, callback, h)
	case strings.HasPrefix(data, AssignView):
		manager.HandleAssignView(ctx, b, callback, h)
	case strings.HasPrefix(data, AssignPick):
		manager.HandleAssignPick(ctx, b, callback, h)
	case strings.HasPrefix(data, AssignOne):
		manager.HandleAssignOne(ctx, b, callback, h)
	case strings.HasPrefix(data, AssignAll):
		manager.HandleAssignAll(ctx, b, callback, h)

	// ===== Manager: Report Approvals =====
	case data == ApprovalList:
		manager.HandleApprovals(ctx, b, callback, h)
	case strings.HasPrefix(data, ApprovalView):
		manager.HandleApprovalView(ctx, b, callback, h)
	case strings.HasPrefix(data, ApproveReport):
		manager.HandleApprove(ctx, b, callback, h)
	case strings.HasPrefix(data, RejectReport):
		manager.HandleReject(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
		return
	}

	h.Logger.Debug("Callback routed", zap.String("data", data))
}
