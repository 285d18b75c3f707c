package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// FormatPlan карточка рассрочки со списком взносов
func FormatPlan(plan model.PaymentPlan) string {
	display := GetPlanStatusDisplay(plan.Status)
	totals := ledger.ComputeTotals(plan)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Рассрочка %s\n", display.Emoji, plan.ID)
	if plan.PackageName != "" {
		fmt.Fprintf(&b, "📦 %s\n", plan.PackageName)
	}
	fmt.Fprintf(&b, "💰 Всего: %s\n", FormatMoney(totals.Total))
	fmt.Fprintf(&b, "✅ Оплачено: %s\n", FormatMoney(totals.Paid))
	fmt.Fprintf(&b, "⏳ Осталось: %s\n", FormatMoney(totals.Remaining))
	fmt.Fprintf(&b, "📊 %s (%d из %d)\n", display.Text, plan.PaidInstallments, len(plan.Installments))

	for _, inst := range plan.Installments {
		fmt.Fprintf(&b, "\n%s", FormatInstallment(inst))
	}
	return b.String()
}

// FormatInstallment строка взноса
func FormatInstallment(inst model.Installment) string {
	mark := "⬜️"
	switch {
	case inst.Paid:
		mark = "✅"
	case inst.EffectivePaid() > 0:
		mark = "🟨"
	}

	line := fmt.Sprintf("%s #%d: %s из %s", mark, inst.Index, FormatMoney(inst.EffectivePaid()), FormatMoney(inst.Amount))
	if inst.PaymentDate != nil {
		line += " · " + FormatDate(*inst.PaymentDate)
	}
	return line
}
