package ledger

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/shopspring/decimal"
)

// NewPlan создаёт план рассрочки для продаваемого шаблона пакета.
// Сумма взноса берётся из шаблона, либо total/count с округлением до копеек;
// разница от округления уходит в последний взнос.
func NewPlan(customerID, customerPackageID string, tpl model.PackageTemplate, createdAt time.Time) (model.PaymentPlan, error) {
	if tpl.InstallmentCount <= 0 {
		return model.PaymentPlan{}, fmt.Errorf("%w: installment count must be positive", ErrInvalidPlan)
	}
	if tpl.TotalPrice <= 0 {
		return model.PaymentPlan{}, fmt.Errorf("%w: total price must be positive", ErrInvalidPlan)
	}

	total := decimal.NewFromFloat(tpl.TotalPrice)
	count := decimal.NewFromInt(int64(tpl.InstallmentCount))

	nominal := decimal.NewFromFloat(tpl.InstallmentAmount)
	explicit := nominal.IsPositive()
	if !explicit {
		nominal = total.Div(count).Round(2)
	}

	installments := make([]model.Installment, tpl.InstallmentCount)
	for i := range installments {
		amount := nominal
		if !explicit && i == len(installments)-1 {
			amount = total.Sub(nominal.Mul(decimal.NewFromInt(int64(tpl.InstallmentCount - 1))))
		}
		installments[i] = model.Installment{
			Index:  i + 1,
			Amount: amount.InexactFloat64(),
		}
	}

	plan := model.PaymentPlan{
		CustomerID:        customerID,
		CustomerPackageID: customerPackageID,
		PackageName:       tpl.Name,
		TotalAmount:       tpl.TotalPrice,
		InstallmentCount:  tpl.InstallmentCount,
		InstallmentAmount: nominal.InexactFloat64(),
		Installments:      installments,
		CreatedAt:         createdAt,
	}
	Recompute(&plan)
	return plan, nil
}
