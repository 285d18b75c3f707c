package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const customersPageSize = 10

const helpText = "📚 Команды:\n\n" +
	"/today - Записи на сегодня\n" +
	"/tomorrow - Записи на завтра\n" +
	"/week - Календарь недели\n" +
	"/slots ГГГГ-ММ-ДД - Свободное время на день\n" +
	"/book - Записать клиента\n" +
	"/customers - Клиенты\n" +
	"/plan <id> - Рассрочка\n" +
	"/pay <id> <взнос> <сумма> - Внести платёж\n" +
	"/cancel - Отменить текущий диалог\n" +
	"/help - Эта справка"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	agenda, err := h.appointments.Agenda(ctx)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "agenda", err)
		return
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\n%s\n\n%s",
		update.Message.From.FirstName,
		formatting.FormatAgenda(agenda, h.today()),
		helpText,
	)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleToday обрабатывает команду /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendDay(ctx, b, update, "📋 Сегодня", 0)
}

// HandleTomorrow обрабатывает команду /tomorrow
func (h *Handlers) HandleTomorrow(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendDay(ctx, b, update, "📋 Завтра", 1)
}

func (h *Handlers) sendDay(ctx context.Context, b *bot.Bot, update *models.Update, title string, offset int) {
	if update.Message == nil {
		return
	}

	day := h.today().AddDate(0, 0, offset)
	appointments, err := h.appointments.Day(ctx, day)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "day", err)
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.FormatDayList(title, day, appointments))
}

// HandleSlots обрабатывает команду /slots YYYY-MM-DD (без даты - сегодня)
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	day := h.today()
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		parsed, err := parseDay(args[0], h.now(), h.appointments.Location())
		if err != nil {
			h.sendError(ctx, b, chatID, "slots", err)
			return
		}
		day = parsed
	}

	slots, err := h.appointments.DaySlots(ctx, day)
	if err != nil {
		h.sendError(ctx, b, chatID, "slots", err)
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatSlots(day, slots))
}

// HandleWeek обрабатывает команду /week - картинка календаря текущей недели
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendWeek(ctx, b, update.Message.Chat.ID, 0)
}

// ShowWeek листает неделю по кнопкам
func (h *Handlers) ShowWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, offset int) {
	common.Ack(ctx, b, callback, "")
	h.sendWeek(ctx, b, common.CallbackChatID(callback), offset)
}

func (h *Handlers) sendWeek(ctx context.Context, b *bot.Bot, chatID int64, offset int) {
	day := h.today().AddDate(0, 0, 7*offset)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))

	appointments, err := h.appointments.Week(ctx, monday)
	if err != nil {
		h.sendError(ctx, b, chatID, "week", err)
		return
	}

	image, err := common.GenerateWeekImage(monday, appointments, common.WeekImageOptions{
		Hours: h.appointments.SlotOptions(),
		Now:   h.now(),
	})
	if err != nil {
		h.sendError(ctx, b, chatID, "week image", err)
		return
	}

	caption := fmt.Sprintf("🗓 %s - %s · %d %s",
		formatting.FormatDate(monday),
		formatting.FormatDate(monday.AddDate(0, 0, 6)),
		len(appointments),
		formatting.PluralizeAppointments(len(appointments)),
	)
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption:     caption,
		ReplyMarkup: keyboard.WeekNavigation(callbacks.WeekOffset, offset),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleCustomers обрабатывает команду /customers [поиск]
func (h *Handlers) HandleCustomers(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if query := strings.Join(commandArgs(update.Message.Text), " "); query != "" {
		found, err := h.customers.Search(ctx, query)
		if err != nil {
			h.sendError(ctx, b, chatID, "search customers", err)
			return
		}
		h.sendMessage(ctx, b, chatID, formatting.FormatCustomerList(found, 0, len(found)))
		return
	}

	text, markup, err := h.customersPage(ctx, 0)
	if err != nil {
		h.sendError(ctx, b, chatID, "list customers", err)
		return
	}
	h.sendMessage(ctx, b, chatID, text, markup)
}

// ShowCustomersPage листает список клиентов
func (h *Handlers) ShowCustomersPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, page int) {
	text, markup, err := h.customersPage(ctx, page)
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		common.Alert(ctx, b, callback, err)
		return
	}
	common.Ack(ctx, b, callback, "")
	h.editText(ctx, b, callback, text, markup)
}

func (h *Handlers) customersPage(ctx context.Context, page int) (string, models.ReplyMarkup, error) {
	all, err := h.customers.List(ctx)
	if err != nil {
		return "", nil, err
	}

	totalPages := max((len(all)+customersPageSize-1)/customersPageSize, 1)
	page = min(max(page, 0), totalPages-1)
	start := page * customersPageSize
	end := min(start+customersPageSize, len(all))

	text := formatting.FormatCustomerList(all[start:end], start, len(all))
	markup := keyboard.NewBuilder().Pager(callbacks.CustomersPage, page, totalPages).Build()
	return text, markup, nil
}
