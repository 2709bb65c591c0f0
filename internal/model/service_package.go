package model

import "time"

// ServicePackage пакет услуг: один визит или серия визитов с интервалом
type ServicePackage struct {
	ID              int64     `json:"id"`
	CategoryID      int64     `json:"category_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int       `json:"price"`            // в копейках за весь пакет
	SessionDuration int       `json:"session_duration"` // минут на один визит
	ComboDays       int       `json:"combo-days"`       // количество визитов
	TimeInterval    int       `json:"time-interval"`    // дней между визитами, 0 - свободный выбор
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsMultiDay пакет из нескольких визитов
func (p *ServicePackage) IsMultiDay() bool {
	return p.ComboDays > 1
}
