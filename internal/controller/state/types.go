package state

import (
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Шаги записи клиента: телефон -> дата -> время -> длительность -> услуга
	StateBookPhone    UserState = "book_phone"
	StateBookDate     UserState = "book_date"
	StateBookTime     UserState = "book_time"
	StateBookDuration UserState = "book_duration"
	StateBookService  UserState = "book_service"
	StateBookConflict UserState = "book_conflict" // ждём решения по пересечению
)

// BookingDraft данные записи, собранные за время диалога
type BookingDraft struct {
	Customer        *model.Customer
	Day             time.Time
	StartAt         time.Time
	DurationMinutes int
	Service         model.ServiceKind
}

// Session диалог одного пользователя
type Session struct {
	State     UserState
	Draft     BookingDraft
	UpdatedAt time.Time
}
