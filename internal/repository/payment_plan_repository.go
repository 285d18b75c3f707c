package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

type installmentDoc struct {
	Index       flexInt     `json:"index"`
	Amount      flexFloat   `json:"amount"`
	PaidAmount  *flexFloat  `json:"paidAmount,omitempty"`
	Paid        bool        `json:"paid"`
	PaymentDate *storedTime `json:"paymentDate,omitempty"`
}

type paymentPlanDoc struct {
	CustomerID        string           `json:"customerId"`
	CustomerPackageID string           `json:"customerPackageId"`
	PackageName       string           `json:"packageName"`
	TotalAmount       flexFloat        `json:"totalAmount"`
	InstallmentCount  flexInt          `json:"installmentCount"`
	InstallmentAmount flexFloat        `json:"installmentAmount"`
	PaidInstallments  flexInt          `json:"paidInstallments"`
	Installments      []installmentDoc `json:"installments"`
	Status            string           `json:"status"`
	CreatedAt         storedTime       `json:"createdAt"`
}

func paymentPlanToDoc(p *model.PaymentPlan) paymentPlanDoc {
	installments := make([]installmentDoc, 0, len(p.Installments))
	for _, inst := range p.Installments {
		doc := installmentDoc{
			Index:       flexInt(inst.Index),
			Amount:      flexFloat(inst.Amount),
			Paid:        inst.Paid,
			PaymentDate: newStoredTimePtr(inst.PaymentDate),
		}
		if inst.PaidAmount != nil {
			paid := flexFloat(*inst.PaidAmount)
			doc.PaidAmount = &paid
		}
		installments = append(installments, doc)
	}

	return paymentPlanDoc{
		CustomerID:        p.CustomerID,
		CustomerPackageID: p.CustomerPackageID,
		PackageName:       p.PackageName,
		TotalAmount:       flexFloat(p.TotalAmount),
		InstallmentCount:  flexInt(p.InstallmentCount),
		InstallmentAmount: flexFloat(p.InstallmentAmount),
		PaidInstallments:  flexInt(p.PaidInstallments),
		Installments:      installments,
		Status:            string(p.Status),
		CreatedAt:         newStoredTime(p.CreatedAt),
	}
}

// toModel paidAmount остаётся nil у старых взносов, где был только флаг paid
func (d paymentPlanDoc) toModel(id string, version int64) model.PaymentPlan {
	installments := make([]model.Installment, 0, len(d.Installments))
	for _, doc := range d.Installments {
		inst := model.Installment{
			Index:       int(doc.Index),
			Amount:      float64(doc.Amount),
			Paid:        doc.Paid,
			PaymentDate: doc.PaymentDate.ptr(),
		}
		if doc.PaidAmount != nil {
			paid := float64(*doc.PaidAmount)
			inst.PaidAmount = &paid
		}
		installments = append(installments, inst)
	}
	slices.SortStableFunc(installments, func(a, b model.Installment) int {
		return a.Index - b.Index
	})

	status := model.PaymentPlanStatus(d.Status)
	if status == "" {
		status = model.PaymentPlanStatusOngoing
	}

	return model.PaymentPlan{
		ID:                id,
		CustomerID:        d.CustomerID,
		CustomerPackageID: d.CustomerPackageID,
		PackageName:       d.PackageName,
		TotalAmount:       float64(d.TotalAmount),
		InstallmentCount:  int(d.InstallmentCount),
		InstallmentAmount: float64(d.InstallmentAmount),
		PaidInstallments:  int(d.PaidInstallments),
		Installments:      installments,
		Status:            status,
		CreatedAt:         d.CreatedAt.Time,
		Version:           version,
	}
}

type PaymentPlanRepository struct {
	st store.Store
	tx store.Tx
}

func NewPaymentPlanRepository(st store.Store) *PaymentPlanRepository {
	return &PaymentPlanRepository{st: st, tx: st}
}

func (r *PaymentPlanRepository) WithTx(tx store.Tx) *PaymentPlanRepository {
	return &PaymentPlanRepository{st: r.st, tx: tx}
}

// Create сохраняет план рассрочки
func (r *PaymentPlanRepository) Create(ctx context.Context, p *model.PaymentPlan) error {
	doc, err := encode(paymentPlanToDoc(p))
	if err != nil {
		return fmt.Errorf("create payment plan: %w", err)
	}

	id, err := r.tx.Insert(ctx, store.CollectionPaymentPlans, p.ID, doc)
	if err != nil {
		return fmt.Errorf("create payment plan: %w", err)
	}

	p.ID = id
	p.Version = 1
	return nil
}

// GetByID получает план по ID
func (r *PaymentPlanRepository) GetByID(ctx context.Context, id string) (*model.PaymentPlan, error) {
	rec, err := r.tx.Get(ctx, store.CollectionPaymentPlans, id)
	if err != nil {
		return nil, fmt.Errorf("get payment plan by id: %w", err)
	}

	doc, err := decode[paymentPlanDoc](rec)
	if err != nil {
		return nil, fmt.Errorf("get payment plan by id: %w", err)
	}

	p := doc.toModel(rec.ID, rec.Version)
	return &p, nil
}

// All все планы
func (r *PaymentPlanRepository) All(ctx context.Context) ([]model.PaymentPlan, error) {
	records, err := r.st.FetchAll(ctx, store.CollectionPaymentPlans)
	if err != nil {
		return nil, fmt.Errorf("list payment plans: %w", err)
	}

	plans := make([]model.PaymentPlan, 0, len(records))
	for _, rec := range records {
		doc, err := decode[paymentPlanDoc](rec)
		if err != nil {
			return nil, fmt.Errorf("list payment plans: %w", err)
		}
		plans = append(plans, doc.toModel(rec.ID, rec.Version))
	}
	return plans, nil
}

// GetByCustomerID планы клиента
func (r *PaymentPlanRepository) GetByCustomerID(ctx context.Context, customerID string) ([]model.PaymentPlan, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	var plans []model.PaymentPlan
	for _, p := range all {
		if p.CustomerID == customerID {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

// GetByCustomerPackageID план проданного пакета
func (r *PaymentPlanRepository) GetByCustomerPackageID(ctx context.Context, customerPackageID string) (*model.PaymentPlan, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range all {
		if p.CustomerPackageID == customerPackageID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get payment plan by package: %w", store.NotFound(store.CollectionPaymentPlans, customerPackageID))
}

// Update сохраняет взносы и агрегаты плана, если версия не изменилась
func (r *PaymentPlanRepository) Update(ctx context.Context, p *model.PaymentPlan) error {
	doc, err := encode(paymentPlanToDoc(p))
	if err != nil {
		return fmt.Errorf("update payment plan: %w", err)
	}
	delete(doc, "createdAt")

	if err := r.tx.CompareAndUpdate(ctx, store.CollectionPaymentPlans, p.ID, p.Version, doc); err != nil {
		return fmt.Errorf("update payment plan: %w", err)
	}

	p.Version++
	return nil
}

// Delete удаляет план целиком
func (r *PaymentPlanRepository) Delete(ctx context.Context, id string) error {
	if err := r.tx.Remove(ctx, store.CollectionPaymentPlans, id); err != nil {
		return fmt.Errorf("delete payment plan: %w", err)
	}
	return nil
}
