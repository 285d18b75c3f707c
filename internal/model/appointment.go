package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена (по умолчанию)
	AppointmentStatusCompleted AppointmentStatus = "completed" // Клиент пришёл, процедура проведена
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена, слот свободен
	AppointmentStatusNoShow    AppointmentStatus = "no_show"   // Клиент не пришёл
)

// DefaultDurationMinutes длительность записи, если она не указана
const DefaultDurationMinutes = 60

// Valid проверяет что статус известен
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	CustomerPackageID string            `json:"customer_package_id,omitempty"` // пакет, из которого списывается сеанс
	StartAt           time.Time         `json:"start_at"`
	DurationMinutes   int               `json:"duration_minutes"`
	Service           Service           `json:"service"`
	Status            AppointmentStatus `json:"status"`
	Notes             string            `json:"notes"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Version           int64             `json:"version"`

	// Дополнительные поля для удобства (не из хранилища)
	Customer *Customer `json:"customer,omitempty"`
}

// Duration возвращает длительность записи, подставляя значение по умолчанию
func (a *Appointment) Duration() time.Duration {
	minutes := a.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// EndAt время окончания записи (не включительно)
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(a.Duration())
}

// BlocksCalendar показывает, занимает ли запись время в календаре.
// Только отменённые записи освобождают слот; completed и no_show его держат.
func (a *Appointment) BlocksCalendar() bool {
	return a.Status != AppointmentStatusCancelled
}
