// Package scheduling определяет пересечения записей в общем календаре салона
// и строит сетку слотов на день. Все функции чистые: состояние передаётся явно.
package scheduling

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Записи встык (конец одной == начало другой) не пересекаются.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains проверяет что момент t лежит в [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Candidate запрашиваемое время новой или переносимой записи
type Candidate struct {
	StartAt         time.Time
	DurationMinutes int
}

// Validate проверяет контракт вызывающего: время задано, длительность > 0
func (c Candidate) Validate() error {
	if c.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidAppointmentInput)
	}
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidAppointmentInput, c.DurationMinutes)
	}
	return nil
}

// Interval возвращает интервал кандидата
func (c Candidate) Interval() Interval {
	return Interval{
		Start: c.StartAt,
		End:   c.StartAt.Add(time.Duration(c.DurationMinutes) * time.Minute),
	}
}

// IntervalOf интервал существующей записи с учётом длительности по умолчанию
func IntervalOf(a model.Appointment) Interval {
	return Interval{Start: a.StartAt, End: a.EndAt()}
}

// DetectConflict проверяет пересекается ли кандидат хотя бы с одной активной записью.
// excludeID исключает саму редактируемую запись.
func DetectConflict(c Candidate, existing []model.Appointment, excludeID string) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	candidate := c.Interval()
	for i := range existing {
		if blocks(existing[i], excludeID) && candidate.Overlaps(IntervalOf(existing[i])) {
			return true, nil
		}
	}
	return false, nil
}

// FindConflicts возвращает все записи, с которыми пересекается кандидат
func FindConflicts(c Candidate, existing []model.Appointment, excludeID string) ([]model.Appointment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	candidate := c.Interval()
	var conflicts []model.Appointment
	for i := range existing {
		if blocks(existing[i], excludeID) && candidate.Overlaps(IntervalOf(existing[i])) {
			conflicts = append(conflicts, existing[i])
		}
	}
	return conflicts, nil
}

// blocks решает, участвует ли запись в проверке пересечений
func blocks(a model.Appointment, excludeID string) bool {
	if excludeID != "" && a.ID == excludeID {
		return false
	}
	return a.BlocksCalendar()
}
