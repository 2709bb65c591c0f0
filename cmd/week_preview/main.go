package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/homecare_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/scheduling"
)

func main() {
	out := flag.String("out", "week.png", "куда сохранить картинку")
	flag.Parse()

	now := time.Now()
	weekStart := scheduling.StartOfWeek(now)

	// Тестовые визиты: серия через день, пересечение в среду, отменённый визит
	group := uuid.New()
	nurse := int64(7)
	visit := func(id int64, day, hour, minute, duration int, status model.AppointmentStatus, patient string) *model.Appointment {
		return &model.Appointment{
			ID:               id,
			GroupID:          group,
			EstDate:          scheduling.AddDays(weekStart, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute),
			TotalEstDuration: duration,
			Status:           status,
			NursingID:        &nurse,
			Patient:          &model.Patient{FullName: patient},
		}
	}

	appointments := []*model.Appointment{
		visit(1, 0, 9, 0, 60, model.AppointmentStatusCompleted, "Петрова А.И."),
		visit(2, 2, 9, 0, 60, model.AppointmentStatusAssigned, "Петрова А.И."),
		visit(3, 2, 9, 30, 45, model.AppointmentStatusPending, "Смирнов В.П."),
		visit(4, 4, 9, 0, 60, model.AppointmentStatusAssigned, "Петрова А.И."),
		visit(5, 1, 14, 0, 90, model.AppointmentStatusCanceled, "Кузнецова Е.Н."),
		visit(6, 5, 11, 15, 30, model.AppointmentStatusPending, "Смирнов В.П."),
	}

	grid := scheduling.LayoutWeek(appointments, weekStart, scheduling.GridConfig{
		Location:  now.Location(),
		StartHour: 8,
		EndHour:   22,
	})

	imageData, err := common.GenerateWeekImage(grid, common.WeekImageOptions{
		Now: now,
		Label: func(a *model.Appointment) string {
			if a.Patient == nil {
				return ""
			}
			return a.Patient.FullName
		},
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", *out)
	fmt.Printf("📅 Неделя: %s - %s\n", weekStart.Format("02.01.2006"), scheduling.AddDays(weekStart, 6).Format("02.01.2006"))
	fmt.Printf("📊 Визитов: %d, на сетке: %d\n", len(appointments), len(grid.Placements))
}
