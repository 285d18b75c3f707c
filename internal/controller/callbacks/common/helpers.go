package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Ack закрывает "часики" на кнопке; text показывается всплывающей подсказкой
func Ack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string) {
	_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            text,
	})
}

// Alert показывает окно с текстом ошибки
func Alert(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, err error) {
	_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            ErrorMessage(err),
		ShowAlert:       true,
	})
}

// CallbackMessage сообщение с кнопкой. Для старых сообщений Telegram его не присылает.
func CallbackMessage(callback *models.CallbackQuery) (*models.Message, error) {
	if callback.Message.Message == nil {
		return nil, ErrNoMessage
	}
	return callback.Message.Message, nil
}

// CallbackChatID чат нажатия; без сообщения это личный чат пользователя
func CallbackChatID(callback *models.CallbackQuery) int64 {
	if msg, err := CallbackMessage(callback); err == nil {
		return msg.Chat.ID
	}
	return callback.From.ID
}

// ParseArgFromCallback аргумент после двоеточия: "book_svc:3" -> "3"
func ParseArgFromCallback(data string) (string, error) {
	prefix, arg, ok := strings.Cut(data, ":")
	if !ok || prefix == "" || arg == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return arg, nil
}
