package ledger

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payDay = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func threeByHundred() model.PaymentPlan {
	return model.PaymentPlan{
		ID:                "plan-1",
		TotalAmount:       300,
		InstallmentCount:  3,
		InstallmentAmount: 100,
		Installments: []model.Installment{
			{Index: 1, Amount: 100},
			{Index: 2, Amount: 100},
			{Index: 3, Amount: 100},
		},
		Status: model.PaymentPlanStatusOngoing,
	}
}

func ptr(v float64) *float64 { return &v }

func TestApplyPayment_RollsOverflowForward(t *testing.T) {
	plan, err := ApplyPayment(threeByHundred(), 1, 150, payDay)
	require.NoError(t, err)

	first, second, third := plan.Installments[0], plan.Installments[1], plan.Installments[2]

	require.NotNil(t, first.PaidAmount)
	assert.Equal(t, 100.0, *first.PaidAmount)
	assert.True(t, first.Paid)
	require.NotNil(t, first.PaymentDate)
	assert.True(t, first.PaymentDate.Equal(payDay))

	require.NotNil(t, second.PaidAmount)
	assert.Equal(t, 50.0, *second.PaidAmount)
	assert.False(t, second.Paid)
	require.NotNil(t, second.PaymentDate)

	assert.Nil(t, third.PaidAmount)
	assert.Nil(t, third.PaymentDate, "untouched installment keeps no date")

	assert.Equal(t, 1, plan.PaidInstallments)
	assert.Equal(t, model.PaymentPlanStatusOngoing, plan.Status)
}

func TestApplyPayment_IsAdditive(t *testing.T) {
	split, err := ApplyPayment(threeByHundred(), 2, 30, payDay)
	require.NoError(t, err)
	split, err = ApplyPayment(split, 2, 45, payDay)
	require.NoError(t, err)

	single, err := ApplyPayment(threeByHundred(), 2, 75, payDay)
	require.NoError(t, err)

	assert.Equal(t, *single.Installments[1].PaidAmount, *split.Installments[1].PaidAmount)
	assert.Equal(t, 75.0, *split.Installments[1].PaidAmount)
	assert.Equal(t, ComputeTotals(single), ComputeTotals(split))
}

func TestApplyPayment_DecimalSumsDoNotDrift(t *testing.T) {
	plan := threeByHundred()
	var err error
	for range 10 {
		plan, err = ApplyPayment(plan, 1, 0.1, payDay)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.0, *plan.Installments[0].PaidAmount)
}

func TestApplyPayment_OverpaymentGoesToLastInstallment(t *testing.T) {
	plan, err := ApplyPayment(threeByHundred(), 1, 350, payDay)
	require.NoError(t, err)

	last := plan.Installments[2]
	require.NotNil(t, last.PaidAmount)
	assert.Equal(t, 150.0, *last.PaidAmount)
	assert.True(t, last.Paid)

	assert.Equal(t, 3, plan.PaidInstallments)
	assert.Equal(t, model.PaymentPlanStatusCompleted, plan.Status)

	totals := ComputeTotals(plan)
	assert.Equal(t, 350.0, totals.Paid)
	assert.Equal(t, -50.0, totals.Remaining)
}

func TestApplyPayment_StartsFromGivenIndex(t *testing.T) {
	plan, err := ApplyPayment(threeByHundred(), 3, 100, payDay)
	require.NoError(t, err)

	assert.Nil(t, plan.Installments[0].PaidAmount)
	assert.Nil(t, plan.Installments[1].PaidAmount)
	assert.True(t, plan.Installments[2].Paid)
	assert.Equal(t, model.PaymentPlanStatusOngoing, plan.Status)
}

func TestApplyPayment_SkipsSettledInstallments(t *testing.T) {
	plan := threeByHundred()
	plan.Installments[0].Paid = true // старый формат без paidAmount

	updated, err := ApplyPayment(plan, 1, 120, payDay)
	require.NoError(t, err)

	assert.Nil(t, updated.Installments[0].PaymentDate)
	assert.Equal(t, 100.0, *updated.Installments[1].PaidAmount)
	assert.Equal(t, 20.0, *updated.Installments[2].PaidAmount)
	assert.Equal(t, 2, updated.PaidInstallments)
}

func TestApplyPayment_CompletesWithinCurrencyTolerance(t *testing.T) {
	plan, err := ApplyPayment(threeByHundred(), 1, 299.5, payDay)
	require.NoError(t, err)

	assert.False(t, plan.Installments[2].Paid)
	assert.Equal(t, model.PaymentPlanStatusCompleted, plan.Status)
}

func TestApplyPayment_InstallmentToleranceMarksPaid(t *testing.T) {
	plan, err := ApplyPayment(threeByHundred(), 1, 99.995, payDay)
	require.NoError(t, err)
	assert.True(t, plan.Installments[0].Paid)
}

func TestApplyPayment_HandlesUnorderedInstallments(t *testing.T) {
	plan := threeByHundred()
	plan.Installments = []model.Installment{
		{Index: 3, Amount: 100},
		{Index: 1, Amount: 100},
		{Index: 2, Amount: 100},
	}

	updated, err := ApplyPayment(plan, 2, 150, payDay)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{
		updated.Installments[0].Index,
		updated.Installments[1].Index,
		updated.Installments[2].Index,
	})
	assert.Equal(t, 100.0, *updated.Installments[1].PaidAmount)
	assert.Equal(t, 50.0, *updated.Installments[2].PaidAmount)
}

func TestApplyPayment_DoesNotMutateInput(t *testing.T) {
	plan := threeByHundred()
	plan.Installments[0].PaidAmount = ptr(10)

	_, err := ApplyPayment(plan, 1, 200, payDay)
	require.NoError(t, err)

	assert.Equal(t, 10.0, *plan.Installments[0].PaidAmount)
	assert.False(t, plan.Installments[0].Paid)
	assert.Nil(t, plan.Installments[1].PaidAmount)
	assert.Equal(t, 0, plan.PaidInstallments)
	assert.Equal(t, model.PaymentPlanStatusOngoing, plan.Status)
}

func TestApplyPayment_Errors(t *testing.T) {
	for _, amount := range []float64{0, -5, 0.004, 0.0049} {
		_, err := ApplyPayment(threeByHundred(), 1, amount, payDay)
		assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
	}

	_, err := ApplyPayment(threeByHundred(), 4, 50, payDay)
	assert.ErrorIs(t, err, ErrInstallmentNotFound)

	_, err = ApplyPayment(model.PaymentPlan{TotalAmount: 100}, 1, 50, payDay)
	assert.ErrorIs(t, err, ErrInstallmentNotFound)
}

func TestApplyPayment_ReplayIsDeterministic(t *testing.T) {
	events := []struct {
		index  int
		amount float64
	}{{1, 40}, {1, 80}, {2, 130}, {3, 10}}

	replay := func() model.PaymentPlan {
		plan := threeByHundred()
		for _, e := range events {
			var err error
			plan, err = ApplyPayment(plan, e.index, e.amount, payDay)
			require.NoError(t, err)
		}
		return plan
	}

	assert.Equal(t, replay(), replay())
}

func TestComputeTotals_LegacyBooleanOnly(t *testing.T) {
	plan := threeByHundred()
	for i := range plan.Installments {
		plan.Installments[i].Paid = true
	}

	totals := ComputeTotals(plan)
	assert.Equal(t, Totals{Total: 300, Paid: 300, Remaining: 0}, totals)
}

func TestComputeTotals_PaidAmountWins(t *testing.T) {
	plan := model.PaymentPlan{
		TotalAmount: 150,
		Installments: []model.Installment{
			{Index: 1, Amount: 50, PaidAmount: ptr(30)},
			{Index: 2, Amount: 50, Paid: true},
			{Index: 3, Amount: 50},
		},
	}

	totals := ComputeTotals(plan)
	assert.Equal(t, 80.0, totals.Paid)
	assert.Equal(t, 70.0, totals.Remaining)
}

func TestRecompute(t *testing.T) {
	plan := threeByHundred()
	plan.Installments[0].Paid = true
	plan.Installments[1].Paid = true
	plan.Installments[2].PaidAmount = ptr(99.5)
	plan.Status = model.PaymentPlanStatusOngoing

	Recompute(&plan)

	assert.Equal(t, 2, plan.PaidInstallments)
	assert.Equal(t, model.PaymentPlanStatusCompleted, plan.Status)
}
