package model

import "time"

// PackageTemplate шаблон пакета услуг, который продаётся клиентам
type PackageTemplate struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	TotalPrice        float64     `json:"total_price"`
	InstallmentCount  int         `json:"installment_count"`
	InstallmentAmount float64     `json:"installment_amount"`
	LaserAreas        []LaserArea `json:"laser_areas"`
	TotalSessions     int         `json:"total_sessions"`
	Active            bool        `json:"active"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Version           int64       `json:"version"`
}

type CustomerPackageStatus string

const (
	CustomerPackageStatusActive    CustomerPackageStatus = "active"
	CustomerPackageStatusCompleted CustomerPackageStatus = "completed" // все сеансы использованы
	CustomerPackageStatusCancelled CustomerPackageStatus = "cancelled"
)

// DefaultPackageServiceType тип услуги, с которым продаются пакеты
const DefaultPackageServiceType = "lazer"

// CustomerPackage пакет, проданный конкретному клиенту
type CustomerPackage struct {
	ID                string                `json:"id"`
	CustomerID        string                `json:"customer_id"`
	PackageTemplateID string                `json:"package_template_id"`
	PackageName       string                `json:"package_name"`
	ServiceType       string                `json:"service_type"`
	LaserAreas        []LaserArea           `json:"laser_areas"`
	TotalSessions     int                   `json:"total_sessions"`
	RemainingSessions int                   `json:"remaining_sessions"`
	TotalPrice        float64               `json:"total_price"`
	StartDate         time.Time             `json:"start_date"`
	Status            CustomerPackageStatus `json:"status"`
	PaymentPlanID     string                `json:"payment_plan_id"`
	CreatedAt         time.Time             `json:"created_at"`
	Version           int64                 `json:"version"`
}
