package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

type customerDoc struct {
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email"`
	BirthDate *calendarDate `json:"birthDate"`
	Notes     string        `json:"notes"`
	CreatedAt storedTime    `json:"createdAt"`
	UpdatedAt storedTime    `json:"updatedAt"`
}

func customerToDoc(c *model.Customer) customerDoc {
	doc := customerDoc{
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: newStoredTime(c.CreatedAt),
		UpdatedAt: newStoredTime(c.UpdatedAt),
	}
	if c.BirthDate != nil {
		doc.BirthDate = &calendarDate{Time: *c.BirthDate}
	}
	return doc
}

func (d customerDoc) toModel(id string, version int64) model.Customer {
	c := model.Customer{
		ID:        id,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
		Version:   version,
	}
	if d.BirthDate != nil && !d.BirthDate.IsZero() {
		birth := d.BirthDate.Time
		c.BirthDate = &birth
	}
	return c
}

type CustomerRepository struct {
	st store.Store
}

func NewCustomerRepository(st store.Store) *CustomerRepository {
	return &CustomerRepository{st: st}
}

// Create сохраняет нового клиента
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	doc, err := encode(customerToDoc(c))
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	id, err := r.st.Insert(ctx, store.CollectionCustomers, c.ID, doc)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	c.ID = id
	c.Version = 1
	return nil
}

// GetByID получает клиента по ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	rec, err := r.st.Get(ctx, store.CollectionCustomers, id)
	if err != nil {
		return nil, fmt.Errorf("get customer by id: %w", err)
	}

	doc, err := decode[customerDoc](rec)
	if err != nil {
		return nil, fmt.Errorf("get customer by id: %w", err)
	}

	c := doc.toModel(rec.ID, rec.Version)
	return &c, nil
}

// All все клиенты, отсортированные по имени
func (r *CustomerRepository) All(ctx context.Context) ([]model.Customer, error) {
	records, err := r.st.FetchAll(ctx, store.CollectionCustomers)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]model.Customer, 0, len(records))
	for _, rec := range records {
		doc, err := decode[customerDoc](rec)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		customers = append(customers, doc.toModel(rec.ID, rec.Version))
	}

	slices.SortStableFunc(customers, func(a, b model.Customer) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return customers, nil
}

// GetByPhone ищет клиента по телефону, сравнивая только цифры
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	want := model.NormalizePhone(phone)
	for _, c := range all {
		if want != "" && model.NormalizePhone(c.Phone) == want {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get customer by phone: %w", store.NotFound(store.CollectionCustomers, phone))
}

// Update сохраняет изменения клиента с проверкой версии
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	c.UpdatedAt = time.Now().UTC()

	doc, err := encode(customerToDoc(c))
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	delete(doc, "createdAt")

	if err := r.st.CompareAndUpdate(ctx, store.CollectionCustomers, c.ID, c.Version, doc); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	c.Version++
	return nil
}

// Delete удаляет клиента
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if err := r.st.Remove(ctx, store.CollectionCustomers, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
