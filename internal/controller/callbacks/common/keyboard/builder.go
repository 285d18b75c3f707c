package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// NoopData callback кнопок-подписей, на которые нечего отвечать
const NoopData = "noop"

// Builder собирает inline клавиатуру по рядам
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Row добавляет ряд; пустой ряд пропускается
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Grid раскладывает кнопки по рядам, не больше perRow в ряду
func (b *Builder) Grid(perRow int, buttons ...models.InlineKeyboardButton) *Builder {
	if perRow <= 0 {
		perRow = 1
	}
	for start := 0; start < len(buttons); start += perRow {
		end := min(start+perRow, len(buttons))
		row := make([]models.InlineKeyboardButton, end-start)
		copy(row, buttons[start:end])
		b.rows = append(b.rows, row)
	}
	return b
}

// Pager ряд "назад / N из M / вперёд" для страниц с нуля. Одна страница: ряд не нужен.
func (b *Builder) Pager(prefix string, page, total int) *Builder {
	if total <= 1 {
		return b
	}

	row := make([]models.InlineKeyboardButton, 0, 3)
	if page > 0 {
		row = append(row, Button("⬅️", fmt.Sprintf("%s%d", prefix, page-1)))
	}
	row = append(row, Button(fmt.Sprintf("📄 %d/%d", page+1, total), NoopData))
	if page < total-1 {
		row = append(row, Button("➡️", fmt.Sprintf("%s%d", prefix, page+1)))
	}
	return b.Row(row...)
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

func (b *Builder) Build() *models.InlineKeyboardMarkup {
	rows := b.rows
	if rows == nil {
		rows = [][]models.InlineKeyboardButton{}
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
