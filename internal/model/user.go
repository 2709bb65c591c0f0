package model

import "time"

// Role роль пользователя в системе
type Role string

const (
	RoleClient  Role = "client"  // Заказчик услуг (родственник пациента или сам пациент)
	RoleNurse   Role = "nurse"   // Медсестра/сиделка
	RoleManager Role = "manager" // Менеджер: каталог, назначения, отчёты
	RoleAdmin   Role = "admin"
)

// IsStaff проверяет что роль относится к персоналу
func (r Role) IsStaff() bool {
	return r == RoleNurse || r == RoleManager || r == RoleAdmin
}

// CanManage проверяет права менеджера
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

// ParseRole разбирает роль из строки
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleNurse, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName имя для показа в сообщениях
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" && u.Username != "" {
		name = "@" + u.Username
	}
	return name
}
