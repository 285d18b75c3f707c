package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlePlan обрабатывает команду /plan <planID>
func (h *Handlers) HandlePlan(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, chatID, "Использование: /plan <id рассрочки>")
		return
	}

	plan, err := h.payments.Plan(ctx, args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "get plan", err)
		return
	}
	h.sendMessage(ctx, b, chatID, formatting.FormatPlan(*plan))
}

// HandlePay обрабатывает команду /pay <planID> <index> <amount>
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parsePayArgs(update.Message.Text)
	if err != nil {
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err)+"\n\nИспользование: /pay <id рассрочки> <номер взноса> <сумма>")
		return
	}

	plan, err := h.payments.RecordPayment(ctx, args.PlanID, args.Index, args.Amount, h.now())
	if err != nil {
		h.sendError(ctx, b, chatID, "record payment", err)
		return
	}

	h.logger.Info("Payment recorded from bot",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.String("plan_id", args.PlanID),
		zap.Int("installment", args.Index),
		zap.Float64("amount", args.Amount))

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Платёж %s принят\n\n%s", formatting.FormatMoney(args.Amount), formatting.FormatPlan(*plan)))
}
