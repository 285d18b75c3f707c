package callbacks

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Форматы callback data
const (
	Noop = keyboard.NoopData

	// Диалог записи
	BookTime     = "book_time:" // book_time:1430
	BookDuration = "book_dur:"  // book_dur:60
	BookService  = "book_svc:"  // book_svc:2 (индекс в model.KnownServices)
	BookForce    = "book_force"
	BookAbort    = "book_abort"

	// Навигация
	CustomersPage = "customers_page:" // customers_page:1
	WeekOffset    = "week:"           // week:-1 (смещение от текущей недели)
)

// Actions обработчики нажатий, которые вызывает роутер
type Actions interface {
	ChooseTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, clock string)
	ChooseDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, minutes int)
	ChooseService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, index int)
	ForceBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery)
	AbortBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery)
	ShowCustomersPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, page int)
	ShowWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, offset int)
}

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, a Actions, logger *zap.Logger) {
	data := callback.Data

	logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == Noop:
		common.Ack(ctx, b, callback, "")
	case data == BookForce:
		a.ForceBooking(ctx, b, callback)
	case data == BookAbort:
		a.AbortBooking(ctx, b, callback)
	case strings.HasPrefix(data, BookTime):
		a.ChooseTime(ctx, b, callback, strings.TrimPrefix(data, BookTime))
	case strings.HasPrefix(data, BookDuration):
		withInt(ctx, b, callback, logger, func(n int) { a.ChooseDuration(ctx, b, callback, n) })
	case strings.HasPrefix(data, BookService):
		withInt(ctx, b, callback, logger, func(n int) { a.ChooseService(ctx, b, callback, n) })
	case strings.HasPrefix(data, CustomersPage):
		withInt(ctx, b, callback, logger, func(n int) { a.ShowCustomersPage(ctx, b, callback, n) })
	case strings.HasPrefix(data, WeekOffset):
		withInt(ctx, b, callback, logger, func(n int) { a.ShowWeek(ctx, b, callback, n) })
	default:
		logger.Warn("Unknown callback", zap.String("data", data))
		common.Alert(ctx, b, callback, common.ErrUnknownAction)
	}
}

// withInt разбирает числовой аргумент callback data
func withInt(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, logger *zap.Logger, fn func(int)) {
	arg, err := common.ParseArgFromCallback(callback.Data)
	if err == nil {
		var n int
		if n, err = strconv.Atoi(arg); err == nil {
			fn(n)
			return
		}
	}
	logger.Error("Failed to parse callback argument", zap.String("data", callback.Data), zap.Error(err))
	common.Alert(ctx, b, callback, common.ErrInvalidFormat)
}
