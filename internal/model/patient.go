package model

import "time"

// Patient профиль пациента, которого обслуживают на дому
type Patient struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"` // пользователь, создавший профиль
	FullName  string    `json:"full_name"`
	BirthYear int       `json:"birth_year"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"` // диагнозы, аллергии, особенности ухода
	CreatedAt time.Time `json:"created_at"`
}

// Age возвращает возраст пациента на указанную дату
func (p *Patient) Age(at time.Time) int {
	if p.BirthYear == 0 {
		return 0
	}
	return at.Year() - p.BirthYear
}
