package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

type customerPackageDoc struct {
	CustomerID        string     `json:"customerId"`
	PackageTemplateID string     `json:"packageTemplateId"`
	PackageName       string     `json:"packageName"`
	ServiceType       string     `json:"serviceType"`
	LaserAreas        []string   `json:"laserAreas"`
	TotalSessions     flexInt    `json:"totalSessions"`
	RemainingSessions flexInt    `json:"remainingSessions"`
	TotalPrice        flexFloat  `json:"totalPrice"`
	StartDate         storedTime `json:"startDate"`
	Status            string     `json:"status"`
	PaymentPlanID     string     `json:"paymentPlanId"`
	CreatedAt         storedTime `json:"createdAt"`
}

func customerPackageToDoc(p *model.CustomerPackage) customerPackageDoc {
	return customerPackageDoc{
		CustomerID:        p.CustomerID,
		PackageTemplateID: p.PackageTemplateID,
		PackageName:       p.PackageName,
		ServiceType:       p.ServiceType,
		LaserAreas:        areasToStrings(p.LaserAreas),
		TotalSessions:     flexInt(p.TotalSessions),
		RemainingSessions: flexInt(p.RemainingSessions),
		TotalPrice:        flexFloat(p.TotalPrice),
		StartDate:         newStoredTime(p.StartDate),
		Status:            string(p.Status),
		PaymentPlanID:     p.PaymentPlanID,
		CreatedAt:         newStoredTime(p.CreatedAt),
	}
}

func (d customerPackageDoc) toModel(id string, version int64) model.CustomerPackage {
	status := model.CustomerPackageStatus(d.Status)
	if status == "" {
		status = model.CustomerPackageStatusActive
	}
	serviceType := d.ServiceType
	if serviceType == "" {
		serviceType = model.DefaultPackageServiceType
	}

	return model.CustomerPackage{
		ID:                id,
		CustomerID:        d.CustomerID,
		PackageTemplateID: d.PackageTemplateID,
		PackageName:       d.PackageName,
		ServiceType:       serviceType,
		LaserAreas:        stringsToAreas(d.LaserAreas),
		TotalSessions:     int(d.TotalSessions),
		RemainingSessions: int(d.RemainingSessions),
		TotalPrice:        float64(d.TotalPrice),
		StartDate:         d.StartDate.Time,
		Status:            status,
		PaymentPlanID:     d.PaymentPlanID,
		CreatedAt:         d.CreatedAt.Time,
		Version:           version,
	}
}

type CustomerPackageRepository struct {
	st store.Store
	tx store.Tx
}

func NewCustomerPackageRepository(st store.Store) *CustomerPackageRepository {
	return &CustomerPackageRepository{st: st, tx: st}
}

func (r *CustomerPackageRepository) WithTx(tx store.Tx) *CustomerPackageRepository {
	return &CustomerPackageRepository{st: r.st, tx: tx}
}

// Create сохраняет проданный пакет
func (r *CustomerPackageRepository) Create(ctx context.Context, p *model.CustomerPackage) error {
	doc, err := encode(customerPackageToDoc(p))
	if err != nil {
		return fmt.Errorf("create customer package: %w", err)
	}

	id, err := r.tx.Insert(ctx, store.CollectionCustomerPackages, p.ID, doc)
	if err != nil {
		return fmt.Errorf("create customer package: %w", err)
	}

	p.ID = id
	p.Version = 1
	return nil
}

// GetByID получает пакет клиента по ID
func (r *CustomerPackageRepository) GetByID(ctx context.Context, id string) (*model.CustomerPackage, error) {
	rec, err := r.tx.Get(ctx, store.CollectionCustomerPackages, id)
	if err != nil {
		return nil, fmt.Errorf("get customer package by id: %w", err)
	}

	doc, err := decode[customerPackageDoc](rec)
	if err != nil {
		return nil, fmt.Errorf("get customer package by id: %w", err)
	}

	p := doc.toModel(rec.ID, rec.Version)
	return &p, nil
}

// GetByCustomerID пакеты клиента, новые первыми
func (r *CustomerPackageRepository) GetByCustomerID(ctx context.Context, customerID string) ([]model.CustomerPackage, error) {
	records, err := r.st.FetchAll(ctx, store.CollectionCustomerPackages)
	if err != nil {
		return nil, fmt.Errorf("get customer packages: %w", err)
	}

	var packages []model.CustomerPackage
	for _, rec := range records {
		doc, err := decode[customerPackageDoc](rec)
		if err != nil {
			return nil, fmt.Errorf("get customer packages: %w", err)
		}
		if doc.CustomerID == customerID {
			packages = append(packages, doc.toModel(rec.ID, rec.Version))
		}
	}

	slices.SortStableFunc(packages, func(a, b model.CustomerPackage) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return packages, nil
}

// Update сохраняет изменения пакета с проверкой версии
func (r *CustomerPackageRepository) Update(ctx context.Context, p *model.CustomerPackage) error {
	doc, err := encode(customerPackageToDoc(p))
	if err != nil {
		return fmt.Errorf("update customer package: %w", err)
	}
	delete(doc, "createdAt")

	if err := r.tx.CompareAndUpdate(ctx, store.CollectionCustomerPackages, p.ID, p.Version, doc); err != nil {
		return fmt.Errorf("update customer package: %w", err)
	}

	p.Version++
	return nil
}

// Delete удаляет пакет клиента
func (r *CustomerPackageRepository) Delete(ctx context.Context, id string) error {
	if err := r.tx.Remove(ctx, store.CollectionCustomerPackages, id); err != nil {
		return fmt.Errorf("delete customer package: %w", err)
	}
	return nil
}
