package scheduling

import (
	"slices"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// ListForDay возвращает записи указанного календарного дня (в часовом поясе day)
func ListForDay(day time.Time, all []model.Appointment) []model.Appointment {
	loc := day.Location()
	y, m, d := day.Date()

	var result []model.Appointment
	for _, a := range all {
		ay, am, ad := a.StartAt.In(loc).Date()
		if ay == y && am == m && ad == d {
			result = append(result, a)
		}
	}
	SortByStart(result)
	return result
}

// ListForMonth возвращает записи месяца. Компоненты даты берутся в часовом поясе loc.
func ListForMonth(month time.Month, year int, loc *time.Location, all []model.Appointment) []model.Appointment {
	if loc == nil {
		loc = time.Local
	}

	var result []model.Appointment
	for _, a := range all {
		ay, am, _ := a.StartAt.In(loc).Date()
		if ay == year && am == month {
			result = append(result, a)
		}
	}
	SortByStart(result)
	return result
}

// SortByStart сортирует записи по времени начала, при равенстве по ID
func SortByStart(appointments []model.Appointment) {
	slices.SortStableFunc(appointments, func(a, b model.Appointment) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

type TimeFilter string

const (
	FilterAll      TimeFilter = "all"
	FilterUpcoming TimeFilter = "upcoming"
	FilterPast     TimeFilter = "past"
)

// FilterByTime оставляет будущие (начало >= now) или прошедшие записи
func FilterByTime(now time.Time, all []model.Appointment, filter TimeFilter) []model.Appointment {
	var result []model.Appointment
	for _, a := range all {
		switch filter {
		case FilterUpcoming:
			if a.StartAt.Before(now) {
				continue
			}
		case FilterPast:
			if !a.StartAt.Before(now) {
				continue
			}
		}
		result = append(result, a)
	}
	SortByStart(result)
	return result
}

// Agenda сводка для главного экрана
type Agenda struct {
	Today         []model.Appointment `json:"today"`
	Tomorrow      []model.Appointment `json:"tomorrow"`
	UpcomingCount int                 `json:"upcoming_count"` // записи после завтрашнего дня
}

// BuildAgenda раскладывает записи на сегодня, завтра и более поздние
func BuildAgenda(now time.Time, all []model.Appointment) Agenda {
	tomorrow := now.AddDate(0, 0, 1)
	dayAfter := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day()+1, 0, 0, 0, 0, now.Location())

	agenda := Agenda{
		Today:    ListForDay(now, all),
		Tomorrow: ListForDay(tomorrow, all),
	}
	for _, a := range all {
		if !a.StartAt.Before(dayAfter) {
			agenda.UpcomingCount++
		}
	}
	return agenda
}
