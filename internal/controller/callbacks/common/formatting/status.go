package formatting

import "github.com/Freeeeeet/salon_scheduler/internal/model"

// StatusDisplay emoji и текст для отображения статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusPending:   {"⏳", "Ожидает подтверждения"},
		model.AppointmentStatusConfirmed: {"✅", "Подтверждена"},
		model.AppointmentStatusCompleted: {"✔️", "Проведена"},
		model.AppointmentStatusCancelled: {"❌", "Отменена"},
		model.AppointmentStatusNoShow:    {"🚫", "Клиент не пришёл"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetPlanStatusDisplay возвращает emoji и текст для статуса рассрочки
func GetPlanStatusDisplay(status model.PaymentPlanStatus) StatusDisplay {
	switch status {
	case model.PaymentPlanStatusCompleted:
		return StatusDisplay{"✅", "Оплачен"}
	case model.PaymentPlanStatusOngoing:
		return StatusDisplay{"💳", "Идут платежи"}
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
