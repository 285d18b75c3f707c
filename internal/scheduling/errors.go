package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

var (
	ErrInvalidAppointmentInput = errors.New("invalid appointment input")
	ErrConflictDetected        = errors.New("appointment conflicts with an existing booking")
)

// ConflictError сообщает, с какими записями пересекается новая.
// Ошибка рекомендательная: вызывающий сам решает, блокировать запись или нет.
type ConflictError struct {
	Conflicts []model.Appointment
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, a := range e.Conflicts {
		ids[i] = a.ID
	}
	return fmt.Sprintf("%s: %s", ErrConflictDetected, strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictDetected
}
