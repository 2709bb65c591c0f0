package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Создание профиля пациента
	StatePatientName      UserState = "patient_name"
	StatePatientBirthYear UserState = "patient_birth_year"
	StatePatientAddress   UserState = "patient_address"
	StatePatientPhone     UserState = "patient_phone"
	StatePatientNotes     UserState = "patient_notes"

	// Создание категории
	StateCategoryName        UserState = "category_name"
	StateCategoryDescription UserState = "category_description"

	// Создание пакета услуг
	StatePackageName         UserState = "package_name"
	StatePackageDescription  UserState = "package_description"
	StatePackagePrice        UserState = "package_price"
	StatePackageDuration     UserState = "package_duration"
	StatePackageComboDays    UserState = "package_combo_days"
	StatePackageTimeInterval UserState = "package_time_interval"

	// Выбор дат и времени визитов
	StateBookingSchedule UserState = "booking_schedule"

	// Отчёты медсестры и их проверка
	StateReportContent UserState = "report_content"
	StateRejectComment UserState = "reject_comment"
)

// Ключи временных данных диалога
const (
	KeyPatientDraft = "patient_draft"
	KeyCategoryName = "category_name"
	KeyPackageDraft = "package_draft"
	KeyBooking      = "booking"
	KeyAppointment  = "appointment_id"
	KeyReport       = "report_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
