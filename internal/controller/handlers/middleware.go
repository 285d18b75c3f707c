package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// AdminSet telegram ID сотрудников салона, которым доступен бот
type AdminSet map[int64]struct{}

// NewAdminSet собирает множество из списка ID
func NewAdminSet(ids []int64) AdminSet {
	set := make(AdminSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Allows проверяет доступ. Пустое множество никого не пускает.
func (s AdminSet) Allows(telegramID int64) bool {
	_, ok := s[telegramID]
	return ok
}

// senderID автор сообщения или нажатия
func senderID(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}

// AdminOnly пропускает к обработчику только сотрудников из списка
func AdminOnly(admins AdminSet, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			id, ok := senderID(update)
			if ok && admins.Allows(id) {
				next(ctx, b, update)
				return
			}

			logger.Warn("Access denied", zap.Int64("telegram_id", id))
			switch {
			case update.Message != nil:
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   "⛔️ Бот доступен только сотрудникам салона.",
				})
			case update.CallbackQuery != nil:
				b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            "⛔️ Нет доступа",
					ShowAlert:       true,
				})
			}
		}
	}
}
