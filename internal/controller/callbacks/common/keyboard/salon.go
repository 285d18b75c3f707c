package keyboard

import (
	"fmt"
	"strconv"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/go-telegram/bot/models"
)

// Длительности, которые предлагаются при записи
var DurationChoices = []int{30, 60, 90, 120}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

// ServiceKeyboard кнопки услуг салона, в callback индекс из model.KnownServices
func ServiceKeyboard(prefix, cancelData string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, len(model.KnownServices))
	for i, kind := range model.KnownServices {
		buttons[i] = Button(formatting.ServiceName(kind), prefix+strconv.Itoa(i))
	}
	return NewBuilder().Grid(2, buttons...).Row(CancelButton(cancelData)).Build()
}

// DurationKeyboard кнопки длительности записи
func DurationKeyboard(prefix, cancelData string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, len(DurationChoices))
	for i, minutes := range DurationChoices {
		buttons[i] = Button(formatting.FormatDuration(minutes), prefix+strconv.Itoa(minutes))
	}
	return NewBuilder().Grid(4, buttons...).Row(CancelButton(cancelData)).Build()
}

// TimeKeyboard кнопки свободных слотов дня в формате HH:MM
func TimeKeyboard(prefix, cancelData string, slots []scheduling.Slot) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		if slot.Occupied {
			continue
		}
		label := formatting.FormatTime(slot.Start)
		buttons = append(buttons, Button(label, prefix+slot.Start.Format("1504")))
	}
	return NewBuilder().Grid(4, buttons...).Row(CancelButton(cancelData)).Build()
}

// ConflictKeyboard выбор при пересечении: записать всё равно или отменить
func ConflictKeyboard(forceData, cancelData string, conflicts int) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button(fmt.Sprintf("⚠️ Записать всё равно (%d пересеч.)", conflicts), forceData)).
		Row(CancelButton(cancelData)).
		Build()
}

// WeekNavigation листание недель относительно текущей; вне текущей недели есть возврат к ней
func WeekNavigation(prefix string, offset int) *models.InlineKeyboardMarkup {
	row := []models.InlineKeyboardButton{Button("◀️", fmt.Sprintf("%s%d", prefix, offset-1))}
	if offset != 0 {
		row = append(row, Button("📍 Эта неделя", prefix+"0"))
	}
	row = append(row, Button("▶️", fmt.Sprintf("%s%d", prefix, offset+1)))
	return NewBuilder().Row(row...).Build()
}
