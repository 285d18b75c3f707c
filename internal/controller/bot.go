package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/state"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	adminIDs []int64
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	appointmentService *service.AppointmentService,
	customerService *service.CustomerService,
	paymentService *service.PaymentService,
	adminIDs []int64,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		appointmentService,
		customerService,
		paymentService,
		state.NewManager(state.DefaultTTL),
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		adminIDs: adminIDs,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	adminOnly := handlers.AdminOnly(handlers.NewAdminSet(c.adminIDs), c.logger)

	commands := map[string]bot.HandlerFunc{
		"/start":     c.handlers.HandleStart,
		"/help":      c.handlers.HandleHelp,
		"/cancel":    c.handlers.HandleCancel,
		"/today":     c.handlers.HandleToday,
		"/tomorrow":  c.handlers.HandleTomorrow,
		"/week":      c.handlers.HandleWeek,
		"/book":      c.handlers.HandleBookStart,
		"/customers": c.handlers.HandleCustomers,
	}
	for command, handler := range commands {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, command, bot.MatchTypeExact, handler, adminOnly)
	}

	// Команды с аргументами
	withArgs := map[string]bot.HandlerFunc{
		"/slots":     c.handlers.HandleSlots,
		"/customers": c.handlers.HandleCustomers,
		"/plan":      c.handlers.HandlePlan,
		"/pay":       c.handlers.HandlePay,
	}
	for command, handler := range withArgs {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, command+" ", bot.MatchTypePrefix, handler, adminOnly)
	}
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypeExact, c.handlers.HandleSlots, adminOnly)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/plan", bot.MatchTypeExact, c.handlers.HandlePlan, adminOnly)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pay", bot.MatchTypeExact, c.handlers.HandlePay, adminOnly)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage, adminOnly)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handleCallback, adminOnly)

	return c.setCommands(ctx)
}

func (c *BotController) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callbacks.Route(ctx, b, update.CallbackQuery, c.handlers, c.logger)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📋 Записи на сегодня"},
		{Command: "tomorrow", Description: "📋 Записи на завтра"},
		{Command: "week", Description: "🗓 Календарь недели"},
		{Command: "slots", Description: "🕐 Свободное время на день"},
		{Command: "book", Description: "➕ Записать клиента"},
		{Command: "customers", Description: "👥 Клиенты"},
		{Command: "plan", Description: "💳 Рассрочка"},
		{Command: "pay", Description: "💰 Внести платёж"},
		{Command: "cancel", Description: "❌ Отменить диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Notify отправляет текст всем сотрудникам из списка доступа
func (c *BotController) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, chatID := range c.adminIDs {
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
		if err != nil {
			errs = append(errs, fmt.Errorf("notify chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
