package common

import (
	"errors"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

// Ошибки разбора ввода в боте
var (
	ErrInvalidFormat = errors.New("invalid input format")
	ErrNoMessage     = errors.New("no message in callback")
	ErrDialogExpired = errors.New("dialog data is missing")
	ErrUnknownAction = errors.New("unknown callback action")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, scheduling.ErrConflictDetected):
		return "❌ Время пересекается с другой записью"
	case errors.Is(err, scheduling.ErrInvalidAppointmentInput):
		return "❌ Неверное время или длительность записи"
	case errors.Is(err, ledger.ErrInstallmentNotFound):
		return "❌ Взнос с таким номером не найден"
	case errors.Is(err, ledger.ErrInvalidPaymentAmount):
		return "❌ Сумма платежа должна быть больше нуля"
	case errors.Is(err, service.ErrTemplateInactive):
		return "❌ Пакет снят с продажи"
	case errors.Is(err, service.ErrNoSessionsLeft):
		return "❌ В пакете не осталось сеансов"
	case errors.Is(err, service.ErrInvalidInput):
		return "❌ Неверные данные"
	case errors.Is(err, store.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, store.ErrVersionConflict):
		return "❌ Данные изменились, повторите операцию"
	case errors.Is(err, lock.ErrLockTimeout), errors.Is(err, store.ErrStoreUnavailable):
		return "❌ Сервис временно недоступен, попробуйте позже"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrDialogExpired):
		return "❌ Данные диалога потеряны. Начните заново: /book"
	case errors.Is(err, ErrUnknownAction):
		return "❌ Неизвестная команда"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	default:
		return "❌ Произошла ошибка"
	}
}
