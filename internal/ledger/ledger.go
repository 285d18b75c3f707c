// Package ledger распределяет платежи по взносам плана рассрочки
// и считает итоговые суммы. Функции не меняют переданный план.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrInvalidPlan          = errors.New("invalid payment plan")
)

var (
	// InstallmentTolerance допуск округления, при котором взнос считается оплаченным
	InstallmentTolerance = decimal.RequireFromString("0.01")
	// CompletionTolerance допуск в одну денежную единицу для статуса completed
	CompletionTolerance = decimal.NewFromInt(1)
)

// Totals агрегаты плана
type Totals struct {
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Remaining float64 `json:"remaining"`
}

// ApplyPayment распределяет платёж начиная со взноса startIndex.
// Долг каждого взноса гасится по порядку, остаток переносится на следующие.
// Переплата сверх всего плана записывается на последний взнос.
// Платежи нужно применять в хронологическом порядке.
func ApplyPayment(plan model.PaymentPlan, startIndex int, amount float64, paymentDate time.Time) (model.PaymentPlan, error) {
	// суммы хранятся с точностью до копейки, платёж меньше неё ничего не меняет
	left := decimal.NewFromFloat(amount).Round(2)
	if !left.IsPositive() {
		return plan, fmt.Errorf("%w: %v", ErrInvalidPaymentAmount, amount)
	}

	updated := clonePlan(plan)
	sortInstallments(updated.Installments)

	start := slices.IndexFunc(updated.Installments, func(i model.Installment) bool {
		return i.Index == startIndex
	})
	if start < 0 {
		return plan, fmt.Errorf("%w: index %d", ErrInstallmentNotFound, startIndex)
	}

	for i := start; i < len(updated.Installments) && left.IsPositive(); i++ {
		inst := &updated.Installments[i]
		nominal := decimal.NewFromFloat(inst.Amount)
		paid := decimal.NewFromFloat(inst.EffectivePaid())

		debt := nominal.Sub(paid)
		if !debt.IsPositive() {
			setPaid(inst, paid, nominal)
			continue
		}

		allocated := decimal.Min(debt, left)
		paid = paid.Add(allocated)
		left = left.Sub(allocated)

		setPaid(inst, paid, nominal)
		stamp(inst, paymentDate)
	}

	// переплата остаётся на последнем взносе
	if left.IsPositive() {
		last := &updated.Installments[len(updated.Installments)-1]
		paid := decimal.NewFromFloat(last.EffectivePaid()).Add(left)
		setPaidAmount(last, paid)
		last.Paid = true
		stamp(last, paymentDate)
	}

	Recompute(&updated)
	return updated, nil
}

// ComputeTotals считает общую, оплаченную и оставшуюся сумму.
// Взносы без paidAmount (старый формат) учитываются по флагу paid.
func ComputeTotals(plan model.PaymentPlan) Totals {
	total := decimal.NewFromFloat(plan.TotalAmount)
	paid := paidSum(plan)

	return Totals{
		Total:     total.InexactFloat64(),
		Paid:      paid.InexactFloat64(),
		Remaining: total.Sub(paid).InexactFloat64(),
	}
}

// Recompute пересчитывает производные поля плана: число оплаченных взносов и статус
func Recompute(plan *model.PaymentPlan) {
	count := 0
	for _, inst := range plan.Installments {
		if inst.Paid {
			count++
		}
	}
	plan.PaidInstallments = count

	total := decimal.NewFromFloat(plan.TotalAmount)
	if paidSum(*plan).GreaterThanOrEqual(total.Sub(CompletionTolerance)) {
		plan.Status = model.PaymentPlanStatusCompleted
	} else {
		plan.Status = model.PaymentPlanStatusOngoing
	}
}

func paidSum(plan model.PaymentPlan) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range plan.Installments {
		sum = sum.Add(decimal.NewFromFloat(inst.EffectivePaid()))
	}
	return sum
}

func setPaid(inst *model.Installment, paid, nominal decimal.Decimal) {
	setPaidAmount(inst, paid)
	inst.Paid = paid.GreaterThanOrEqual(nominal.Sub(InstallmentTolerance))
}

func setPaidAmount(inst *model.Installment, paid decimal.Decimal) {
	v := paid.Round(2).InexactFloat64()
	inst.PaidAmount = &v
}

func stamp(inst *model.Installment, date time.Time) {
	d := date
	inst.PaymentDate = &d
}

func sortInstallments(installments []model.Installment) {
	slices.SortStableFunc(installments, func(a, b model.Installment) int {
		return a.Index - b.Index
	})
}

// clonePlan глубокая копия, чтобы не менять план вызывающего
func clonePlan(plan model.PaymentPlan) model.PaymentPlan {
	cloned := plan
	cloned.Installments = make([]model.Installment, len(plan.Installments))
	for i, inst := range plan.Installments {
		c := inst
		if inst.PaidAmount != nil {
			v := *inst.PaidAmount
			c.PaidAmount = &v
		}
		if inst.PaymentDate != nil {
			d := *inst.PaymentDate
			c.PaymentDate = &d
		}
		cloned.Installments[i] = c
	}
	return cloned
}
