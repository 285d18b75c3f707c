package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
)

func main() {
	output := flag.String("o", "week.png", "файл для сохранения картинки")
	flag.Parse()

	now := time.Now()
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}

	at := func(day, hour, minute int) time.Time {
		return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	laser := model.NewService(model.ServiceIceLaser, []model.LaserArea{model.LaserAreaUnderarm, model.LaserAreaLeg})

	// Тестовая неделя: все статусы и запись после рабочего дня
	appointments := []model.Appointment{
		{ID: "1", StartAt: at(0, 9, 0), DurationMinutes: 60, Service: laser, Status: model.AppointmentStatusCompleted, Customer: &model.Customer{Name: "Ayşe Yılmaz"}},
		{ID: "2", StartAt: at(0, 14, 0), DurationMinutes: 90, Service: model.NewService(model.ServiceMassage, nil), Status: model.AppointmentStatusConfirmed, Customer: &model.Customer{Name: "Zeynep Kaya"}},
		{ID: "3", StartAt: at(1, 10, 30), DurationMinutes: 30, Service: model.NewService(model.ServiceNailArt, nil), Status: model.AppointmentStatusPending, Customer: &model.Customer{Name: "Elif Şahin"}},
		{ID: "4", StartAt: at(1, 16, 0), DurationMinutes: 60, Service: model.NewService(model.ServiceSkinCare, nil), Status: model.AppointmentStatusCancelled, Customer: &model.Customer{Name: "Merve Öztürk"}},
		{ID: "5", StartAt: at(2, 11, 0), DurationMinutes: 120, Service: model.NewService(model.ServiceFatBurning, nil), Status: model.AppointmentStatusNoShow, Customer: &model.Customer{Name: "Gül Demir"}},
		{ID: "6", StartAt: at(4, 18, 30), DurationMinutes: 60, Service: model.NewService(model.ServiceHaircut, nil), Status: model.AppointmentStatusConfirmed, Customer: &model.Customer{Name: "Selin Çelik"}},
	}

	imageData, err := common.GenerateWeekImage(monday, appointments, common.WeekImageOptions{
		Hours: scheduling.DefaultSlotOptions(),
		Now:   now,
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, imageData, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", *output)
	fmt.Printf("📅 Неделя: %s - %s\n", monday.Format("02.01.2006"), monday.AddDate(0, 0, 6).Format("02.01.2006"))
	fmt.Printf("📊 Записей: %d\n", len(appointments))
}
