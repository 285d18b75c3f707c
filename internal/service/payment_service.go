package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"go.uber.org/zap"
)

type PaymentService struct {
	plans  *repository.PaymentPlanRepository
	locker lock.Locker
	logger *zap.Logger
}

func NewPaymentService(plans *repository.PaymentPlanRepository, locker lock.Locker, logger *zap.Logger) *PaymentService {
	return &PaymentService{plans: plans, locker: locker, logger: logger}
}

// RecordPayment распределяет платёж по взносам начиная с installmentIndex.
// План блокируется на время записи, сохранение идёт с проверкой версии.
func (s *PaymentService) RecordPayment(ctx context.Context, planID string, installmentIndex int, amount float64, paymentDate time.Time) (*model.PaymentPlan, error) {
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	release, err := acquire(ctx, s.locker, lock.PlanKey(planID))
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get payment plan: %w", err)
	}

	updated, err := ledger.ApplyPayment(*plan, installmentIndex, amount, paymentDate)
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}

	if err := s.plans.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("save payment plan: %w", err)
	}

	totals := ledger.ComputeTotals(updated)
	s.logger.Info("Payment recorded",
		zap.String("payment_plan_id", planID),
		zap.Int("installment_index", installmentIndex),
		zap.Float64("amount", amount),
		zap.Float64("paid", totals.Paid),
		zap.Float64("remaining", totals.Remaining),
		zap.String("status", string(updated.Status)),
	)

	return &updated, nil
}

func (s *PaymentService) Plan(ctx context.Context, id string) (*model.PaymentPlan, error) {
	return s.plans.GetByID(ctx, id)
}

// Totals общая, оплаченная и оставшаяся сумма плана
func (s *PaymentService) Totals(ctx context.Context, id string) (ledger.Totals, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.ComputeTotals(*plan), nil
}

func (s *PaymentService) PlansForCustomer(ctx context.Context, customerID string) ([]model.PaymentPlan, error) {
	return s.plans.GetByCustomerID(ctx, customerID)
}

func (s *PaymentService) PlanForPackage(ctx context.Context, customerPackageID string) (*model.PaymentPlan, error) {
	return s.plans.GetByCustomerPackageID(ctx, customerPackageID)
}

// Outstanding незавершённые планы с остатком долга
func (s *PaymentService) Outstanding(ctx context.Context) ([]model.PaymentPlan, error) {
	all, err := s.plans.All(ctx)
	if err != nil {
		return nil, err
	}

	var result []model.PaymentPlan
	for _, p := range all {
		if p.Status != model.PaymentPlanStatusCompleted {
			result = append(result, p)
		}
	}
	return result, nil
}
