package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) soldPlan(t *testing.T) *model.PaymentPlan {
	t.Helper()
	c := f.customer(t, "Elif")
	tpl := &model.PackageTemplate{Name: "Yüz", TotalPrice: 300, InstallmentCount: 3, InstallmentAmount: 100, TotalSessions: 6, Active: true}
	require.NoError(t, f.packages.CreateTemplate(context.Background(), tpl))

	_, plan, err := f.packages.SellPackage(context.Background(), c.ID, tpl.ID, at(0, 0))
	require.NoError(t, err)
	return plan
}

func TestPaymentService_RecordPaymentPersists(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()
	plan := f.soldPlan(t)

	updated, err := f.payments.RecordPayment(ctx, plan.ID, 1, 150, at(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PaidInstallments)

	stored, err := f.payments.Plan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *stored.Installments[0].PaidAmount)
	assert.Equal(t, 50.0, *stored.Installments[1].PaidAmount)
	assert.False(t, stored.Installments[1].Paid)
	assert.Equal(t, model.PaymentPlanStatusOngoing, stored.Status)

	totals, err := f.payments.Totals(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{Total: 300, Paid: 150, Remaining: 150}, totals)

	_, err = f.payments.RecordPayment(ctx, plan.ID, 2, 200, at(13, 0))
	require.NoError(t, err)

	stored, err = f.payments.Plan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPlanStatusCompleted, stored.Status)
	assert.Equal(t, 3, stored.PaidInstallments)
	assert.Equal(t, 150.0, *stored.Installments[2].PaidAmount)

	outstanding, err := f.payments.Outstanding(ctx)
	require.NoError(t, err)
	assert.Empty(t, outstanding)
}

func TestPaymentService_RecordPaymentErrors(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()
	plan := f.soldPlan(t)

	_, err := f.payments.RecordPayment(ctx, plan.ID, 1, 0, at(12, 0))
	assert.ErrorIs(t, err, ledger.ErrInvalidPaymentAmount)

	// меньше копейки после округления
	_, err = f.payments.RecordPayment(ctx, plan.ID, 1, 0.004, at(12, 0))
	assert.ErrorIs(t, err, ledger.ErrInvalidPaymentAmount)

	_, err = f.payments.RecordPayment(ctx, plan.ID, 9, 50, at(12, 0))
	assert.ErrorIs(t, err, ledger.ErrInstallmentNotFound)

	_, err = f.payments.RecordPayment(ctx, "missing", 1, 50, at(12, 0))
	assert.ErrorIs(t, err, store.ErrNotFound)

	stored, err := f.payments.Plan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version, "failed payments do not touch the plan")
}

func TestPaymentService_ConcurrentPaymentsAreNotLost(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()
	plan := f.soldPlan(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.RecordPayment(ctx, plan.ID, 1, 10, at(12, 0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	totals, err := f.payments.Totals(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, totals.Paid)
}

func TestPaymentService_StaleWriteIsRejected(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()
	plan := f.soldPlan(t)

	stale, err := f.paymentPlans.GetByID(ctx, plan.ID)
	require.NoError(t, err)

	_, err = f.payments.RecordPayment(ctx, plan.ID, 1, 100, at(12, 0))
	require.NoError(t, err)

	applied, err := ledger.ApplyPayment(*stale, 1, 100, at(12, 0))
	require.NoError(t, err)
	assert.ErrorIs(t, f.paymentPlans.Update(ctx, &applied), store.ErrVersionConflict)

	plans, err := f.payments.PlansForCustomer(ctx, plan.CustomerID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 100.0, ledger.ComputeTotals(plans[0]).Paid)
}
