package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, markup ...models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if len(markup) > 0 {
		params.ReplyMarkup = markup[0]
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError логирует ошибку операции и отвечает пользователю понятным текстом.
// Ошибки ввода не логируются как Error.
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, operation string, err error) {
	if isUserError(err) {
		h.logger.Info("Operation rejected",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	} else {
		h.logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
}

func isUserError(err error) bool {
	return errors.Is(err, common.ErrInvalidFormat) ||
		errors.Is(err, service.ErrInvalidInput) ||
		errors.Is(err, scheduling.ErrInvalidAppointmentInput) ||
		errors.Is(err, scheduling.ErrConflictDetected) ||
		errors.Is(err, ledger.ErrInvalidPaymentAmount) ||
		errors.Is(err, ledger.ErrInstallmentNotFound) ||
		errors.Is(err, store.ErrNotFound)
}

// editText заменяет текст сообщения с кнопками после нажатия
func (h *Handlers) editText(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, text string, markup models.ReplyMarkup) {
	msg, err := common.CallbackMessage(callback)
	if err != nil {
		h.sendMessage(ctx, b, callback.From.ID, text, markup)
		return
	}
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}
