package model

import "time"

type PaymentPlanStatus string

const (
	PaymentPlanStatusOngoing   PaymentPlanStatus = "ongoing"
	PaymentPlanStatusCompleted PaymentPlanStatus = "completed"
)

// Installment один платёж (взнос) внутри плана рассрочки
type Installment struct {
	Index  int     `json:"index"`  // порядковый номер с 1, не меняется
	Amount float64 `json:"amount"` // номинальная сумма взноса
	// PaidAmount nil у старых документов, где хранился только флаг paid
	PaidAmount  *float64   `json:"paid_amount,omitempty"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

// EffectivePaid сколько фактически внесено по взносу.
// Для старых записей без paidAmount: amount если paid, иначе 0.
func (i Installment) EffectivePaid() float64 {
	if i.PaidAmount != nil {
		return *i.PaidAmount
	}
	if i.Paid {
		return i.Amount
	}
	return 0
}

// PaymentPlan план рассрочки для проданного пакета
type PaymentPlan struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	CustomerPackageID string            `json:"customer_package_id"`
	PackageName       string            `json:"package_name"`
	TotalAmount       float64           `json:"total_amount"`
	InstallmentCount  int               `json:"installment_count"`
	InstallmentAmount float64           `json:"installment_amount"`
	PaidInstallments  int               `json:"paid_installments"`
	Installments      []Installment     `json:"installments"`
	Status            PaymentPlanStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	Version           int64             `json:"version"`
}
