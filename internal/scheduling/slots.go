package scheduling

import (
	"fmt"
	"iter"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// Значения сетки по умолчанию: с 9:00 до 18:00 с шагом 30 минут
const (
	DefaultGranularityMinutes = 30
	DefaultWorkStartHour      = 9
	DefaultWorkEndHour        = 18
)

// SlotOptions параметры сетки слотов рабочего дня
type SlotOptions struct {
	GranularityMinutes int
	WorkStartHour      int
	WorkEndHour        int
}

// DefaultSlotOptions возвращает сетку салона по умолчанию
func DefaultSlotOptions() SlotOptions {
	return SlotOptions{
		GranularityMinutes: DefaultGranularityMinutes,
		WorkStartHour:      DefaultWorkStartHour,
		WorkEndHour:        DefaultWorkEndHour,
	}
}

// Validate проверяет параметры сетки
func (o SlotOptions) Validate() error {
	if o.GranularityMinutes <= 0 {
		return fmt.Errorf("%w: slot granularity must be positive", ErrInvalidAppointmentInput)
	}
	if o.WorkStartHour < 0 || o.WorkEndHour > 24 || o.WorkStartHour > o.WorkEndHour {
		return fmt.Errorf("%w: invalid working hours %d-%d", ErrInvalidAppointmentInput, o.WorkStartHour, o.WorkEndHour)
	}
	return nil
}

// Slot отметка времени в сетке дня
type Slot struct {
	Start    time.Time `json:"start"`
	Occupied bool      `json:"occupied"`
}

// EnumerateDaySlots возвращает ленивую последовательность слотов дня
// с WorkStartHour:00 по WorkEndHour:00 включительно.
//
// Слот занят, если его момент попадает в [начало, конец) активной записи.
// Это проверка точки, а не пересечения интервалов: слот сетки - отметка
// нулевой ширины, а не бронь длиной в шаг сетки.
//
// Последовательность можно обходить повторно, результат детерминирован.
func EnumerateDaySlots(day time.Time, existing []model.Appointment, opts SlotOptions) (iter.Seq[Slot], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// границы по настенным часам: в день перехода на летнее время сетка не сдвигается
	y, m, d := day.Date()
	first := time.Date(y, m, d, opts.WorkStartHour, 0, 0, 0, day.Location())
	last := time.Date(y, m, d, opts.WorkEndHour, 0, 0, 0, day.Location())
	step := time.Duration(opts.GranularityMinutes) * time.Minute

	busy := make([]Interval, 0, len(existing))
	for i := range existing {
		if existing[i].BlocksCalendar() {
			busy = append(busy, IntervalOf(existing[i]))
		}
	}

	return func(yield func(Slot) bool) {
		for t := first; !t.After(last); t = t.Add(step) {
			if !yield(Slot{Start: t, Occupied: containsAny(busy, t)}) {
				return
			}
		}
	}, nil
}

// CollectSlots материализует последовательность слотов
func CollectSlots(seq iter.Seq[Slot]) []Slot {
	var slots []Slot
	for slot := range seq {
		slots = append(slots, slot)
	}
	return slots
}

func containsAny(busy []Interval, t time.Time) bool {
	for _, b := range busy {
		if b.Contains(t) {
			return true
		}
	}
	return false
}
