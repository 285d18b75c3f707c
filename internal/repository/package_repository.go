package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

type packageTemplateDoc struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	TotalPrice        flexFloat  `json:"totalPrice"`
	InstallmentCount  flexInt    `json:"installmentCount"`
	InstallmentAmount flexFloat  `json:"installmentAmount"`
	LaserAreas        []string   `json:"laserAreas"`
	TotalSessions     flexInt    `json:"totalSessions"`
	Active            bool       `json:"active"`
	CreatedAt         storedTime `json:"createdAt"`
	UpdatedAt         storedTime `json:"updatedAt"`
}

func packageTemplateToDoc(t *model.PackageTemplate) packageTemplateDoc {
	return packageTemplateDoc{
		Name:              t.Name,
		Description:       t.Description,
		TotalPrice:        flexFloat(t.TotalPrice),
		InstallmentCount:  flexInt(t.InstallmentCount),
		InstallmentAmount: flexFloat(t.InstallmentAmount),
		LaserAreas:        areasToStrings(t.LaserAreas),
		TotalSessions:     flexInt(t.TotalSessions),
		Active:            t.Active,
		CreatedAt:         newStoredTime(t.CreatedAt),
		UpdatedAt:         newStoredTime(t.UpdatedAt),
	}
}

func (d packageTemplateDoc) toModel(id string, version int64) model.PackageTemplate {
	return model.PackageTemplate{
		ID:                id,
		Name:              d.Name,
		Description:       d.Description,
		TotalPrice:        float64(d.TotalPrice),
		InstallmentCount:  int(d.InstallmentCount),
		InstallmentAmount: float64(d.InstallmentAmount),
		LaserAreas:        stringsToAreas(d.LaserAreas),
		TotalSessions:     int(d.TotalSessions),
		Active:            d.Active,
		CreatedAt:         d.CreatedAt.Time,
		UpdatedAt:         d.UpdatedAt.Time,
		Version:           version,
	}
}

type PackageTemplateRepository struct {
	st store.Store
	tx store.Tx
}

func NewPackageTemplateRepository(st store.Store) *PackageTemplateRepository {
	return &PackageTemplateRepository{st: st, tx: st}
}

func (r *PackageTemplateRepository) WithTx(tx store.Tx) *PackageTemplateRepository {
	return &PackageTemplateRepository{st: r.st, tx: tx}
}

// Create сохраняет новый шаблон пакета
func (r *PackageTemplateRepository) Create(ctx context.Context, t *model.PackageTemplate) error {
	doc, err := encode(packageTemplateToDoc(t))
	if err != nil {
		return fmt.Errorf("create package template: %w", err)
	}

	id, err := r.tx.Insert(ctx, store.CollectionPackageTemplates, t.ID, doc)
	if err != nil {
		return fmt.Errorf("create package template: %w", err)
	}

	t.ID = id
	t.Version = 1
	return nil
}

// GetByID получает шаблон по ID
func (r *PackageTemplateRepository) GetByID(ctx context.Context, id string) (*model.PackageTemplate, error) {
	rec, err := r.tx.Get(ctx, store.CollectionPackageTemplates, id)
	if err != nil {
		return nil, fmt.Errorf("get package template by id: %w", err)
	}

	doc, err := decode[packageTemplateDoc](rec)
	if err != nil {
		return nil, fmt.Errorf("get package template by id: %w", err)
	}

	t := doc.toModel(rec.ID, rec.Version)
	return &t, nil
}

// All все шаблоны, новые первыми
func (r *PackageTemplateRepository) All(ctx context.Context) ([]model.PackageTemplate, error) {
	records, err := r.st.FetchAll(ctx, store.CollectionPackageTemplates)
	if err != nil {
		return nil, fmt.Errorf("list package templates: %w", err)
	}

	templates := make([]model.PackageTemplate, 0, len(records))
	for _, rec := range records {
		doc, err := decode[packageTemplateDoc](rec)
		if err != nil {
			return nil, fmt.Errorf("list package templates: %w", err)
		}
		templates = append(templates, doc.toModel(rec.ID, rec.Version))
	}

	slices.SortStableFunc(templates, func(a, b model.PackageTemplate) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return templates, nil
}

// Update сохраняет изменения шаблона с проверкой версии
func (r *PackageTemplateRepository) Update(ctx context.Context, t *model.PackageTemplate) error {
	t.UpdatedAt = time.Now().UTC()

	doc, err := encode(packageTemplateToDoc(t))
	if err != nil {
		return fmt.Errorf("update package template: %w", err)
	}
	delete(doc, "createdAt")

	if err := r.tx.CompareAndUpdate(ctx, store.CollectionPackageTemplates, t.ID, t.Version, doc); err != nil {
		return fmt.Errorf("update package template: %w", err)
	}

	t.Version++
	return nil
}

// Delete удаляет шаблон; проданные пакеты хранят копию его полей
func (r *PackageTemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.tx.Remove(ctx, store.CollectionPackageTemplates, id); err != nil {
		return fmt.Errorf("delete package template: %w", err)
	}
	return nil
}

func areasToStrings(areas []model.LaserArea) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, string(a))
	}
	return out
}

func stringsToAreas(areas []string) []model.LaserArea {
	out := make([]model.LaserArea, 0, len(areas))
	for _, a := range areas {
		out = append(out, model.LaserArea(a))
	}
	return out
}
