package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/state"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBookStart начинает диалог записи клиента
func (h *Handlers) HandleBookStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.Start(telegramID, state.StateBookPhone)

	h.logger.Info("Booking dialog started", zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📝 Новая запись\n\n"+
			"Шаг 1 из 5: телефон клиента\n\n"+
			"Для отмены используйте /cancel")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от шага диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch currentState := h.stateManager.GetState(telegramID); currentState {
	case state.StateNone:
		return
	case state.StateBookPhone:
		h.bookPhoneStep(ctx, b, chatID, telegramID, text)
	case state.StateBookDate:
		h.bookDateStep(ctx, b, chatID, telegramID, text)
	case state.StateBookTime:
		h.bookTimeStep(ctx, b, chatID, telegramID, text)
	case state.StateBookDuration:
		minutes, err := parseDuration(text)
		if err != nil {
			h.sendError(ctx, b, chatID, "booking duration", err)
			return
		}
		h.bookDurationStep(ctx, b, chatID, telegramID, minutes)
	case state.StateBookService, state.StateBookConflict:
		h.sendMessage(ctx, b, chatID, "👆 Выберите вариант кнопкой выше или /cancel")
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}

func (h *Handlers) bookPhoneStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, phone string) {
	customer, err := h.customers.FindByPhone(ctx, phone)
	if errors.Is(err, store.ErrNotFound) {
		h.sendMessage(ctx, b, chatID, "❌ Клиент с таким телефоном не найден. Попробуйте ещё раз или /cancel")
		return
	}
	if err != nil {
		h.sendError(ctx, b, chatID, "find customer", err)
		return
	}

	if !h.stateManager.Advance(telegramID, state.StateBookDate, func(d *state.BookingDraft) { d.Customer = customer }) {
		h.sendError(ctx, b, chatID, "booking phone", common.ErrDialogExpired)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Клиент: %s\n\n"+
		"Шаг 2 из 5: дата записи\n\n"+
		"Например: 2026-03-10, 10.03, сегодня, завтра", customer.Name))
}

func (h *Handlers) bookDateStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	day, err := parseDay(text, h.now(), h.appointments.Location())
	if err != nil {
		h.sendError(ctx, b, chatID, "booking date", err)
		return
	}
	if day.Before(startOfDay(h.today())) {
		h.sendMessage(ctx, b, chatID, "❌ Эта дата уже прошла. Введите другую:")
		return
	}

	slots, err := h.appointments.DaySlots(ctx, day)
	if err != nil {
		h.sendError(ctx, b, chatID, "booking slots", err)
		return
	}

	if !h.stateManager.Advance(telegramID, state.StateBookTime, func(d *state.BookingDraft) { d.Day = day }) {
		h.sendError(ctx, b, chatID, "booking date", common.ErrDialogExpired)
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Дата: %s\n\nШаг 3 из 5: выберите свободное время или введите ЧЧ:ММ", formatting.FormatDateWithWeekday(day)),
		keyboard.TimeKeyboard(callbacks.BookTime, callbacks.BookAbort, slots))
}

func (h *Handlers) bookTimeStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	session, ok := h.stateManager.Get(telegramID)
	if !ok || session.State != state.StateBookTime {
		h.sendError(ctx, b, chatID, "booking time", common.ErrDialogExpired)
		return
	}

	startAt, err := parseClock(text, session.Draft.Day)
	if err != nil {
		h.sendError(ctx, b, chatID, "booking time", err)
		return
	}

	h.stateManager.Advance(telegramID, state.StateBookDuration, func(d *state.BookingDraft) { d.StartAt = startAt })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Время: %s\n\nШаг 4 из 5: длительность (кнопкой или числом минут)", formatting.FormatTime(startAt)),
		keyboard.DurationKeyboard(callbacks.BookDuration, callbacks.BookAbort))
}

func (h *Handlers) bookDurationStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, minutes int) {
	if !h.stateManager.Advance(telegramID, state.StateBookService, func(d *state.BookingDraft) { d.DurationMinutes = minutes }) {
		h.sendError(ctx, b, chatID, "booking duration", common.ErrDialogExpired)
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Длительность: %s\n\nШаг 5 из 5: услуга", formatting.FormatDuration(minutes)),
		keyboard.ServiceKeyboard(callbacks.BookService, callbacks.BookAbort))
}

// ChooseTime время из кнопок свободных слотов
func (h *Handlers) ChooseTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, clock string) {
	if h.stateManager.GetState(callback.From.ID) != state.StateBookTime {
		common.Alert(ctx, b, callback, common.ErrDialogExpired)
		return
	}
	common.Ack(ctx, b, callback, "")
	h.bookTimeStep(ctx, b, common.CallbackChatID(callback), callback.From.ID, clock)
}

// ChooseDuration длительность из кнопок
func (h *Handlers) ChooseDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, minutes int) {
	if h.stateManager.GetState(callback.From.ID) != state.StateBookDuration {
		common.Alert(ctx, b, callback, common.ErrDialogExpired)
		return
	}
	common.Ack(ctx, b, callback, "")
	h.bookDurationStep(ctx, b, common.CallbackChatID(callback), callback.From.ID, minutes)
}

// ChooseService услуга из кнопок; после выбора запись сохраняется
func (h *Handlers) ChooseService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, index int) {
	if index < 0 || index >= len(model.KnownServices) {
		common.Alert(ctx, b, callback, common.ErrInvalidFormat)
		return
	}
	ok := h.stateManager.GetState(callback.From.ID) == state.StateBookService &&
		h.stateManager.Advance(callback.From.ID, state.StateBookService, func(d *state.BookingDraft) {
			d.Service = model.KnownServices[index]
		})
	if !ok {
		common.Alert(ctx, b, callback, common.ErrDialogExpired)
		return
	}

	common.Ack(ctx, b, callback, "")
	h.finishBooking(ctx, b, callback, false)
}

// ForceBooking записывает несмотря на пересечения
func (h *Handlers) ForceBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if h.stateManager.GetState(callback.From.ID) != state.StateBookConflict {
		common.Alert(ctx, b, callback, common.ErrDialogExpired)
		return
	}
	common.Ack(ctx, b, callback, "")
	h.finishBooking(ctx, b, callback, true)
}

// AbortBooking отменяет диалог записи по кнопке
func (h *Handlers) AbortBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.stateManager.ClearState(callback.From.ID)
	common.Ack(ctx, b, callback, "Отменено")
	h.editText(ctx, b, callback, "❌ Запись отменена.", nil)
}

func (h *Handlers) finishBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, force bool) {
	telegramID := callback.From.ID
	session, ok := h.stateManager.Get(telegramID)
	if !ok || session.Draft.Customer == nil {
		h.editText(ctx, b, callback, common.ErrorMessage(common.ErrDialogExpired), nil)
		return
	}
	draft := session.Draft

	result, err := h.appointments.Book(ctx, service.BookRequest{
		CustomerID:      draft.Customer.ID,
		StartAt:         draft.StartAt,
		DurationMinutes: draft.DurationMinutes,
		Service:         model.NewService(draft.Service, nil),
		Force:           force,
	})

	var conflict *scheduling.ConflictError
	switch {
	case errors.As(err, &conflict):
		h.stateManager.Advance(telegramID, state.StateBookConflict, nil)
		h.editText(ctx, b, callback,
			formatting.FormatConflicts(conflict.Conflicts)+"\n\nЗаписать всё равно?",
			keyboard.ConflictKeyboard(callbacks.BookForce, callbacks.BookAbort, len(conflict.Conflicts)))
		return
	case err != nil:
		h.stateManager.ClearState(telegramID)
		h.logger.Error("Failed to book appointment", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.editText(ctx, b, callback, common.ErrorMessage(err)+"\n\nНачните заново: /book", nil)
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Appointment booked from bot",
		zap.Int64("telegram_id", telegramID),
		zap.String("appointment_id", result.Appointment.ID),
		zap.Bool("forced", force))

	text := "✅ Клиент записан\n\n" + formatting.FormatAppointment(*result.Appointment)
	if len(result.Conflicts) > 0 {
		text += "\n\n" + formatting.FormatConflicts(result.Conflicts)
	}
	h.editText(ctx, b, callback, text, nil)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
