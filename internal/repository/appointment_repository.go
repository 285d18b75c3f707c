package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

// appointmentDoc хранимая форма записи на приём
type appointmentDoc struct {
	CustomerID        string     `json:"customerId"`
	CustomerPackageID string     `json:"customerPackageId,omitempty"`
	Date              storedTime `json:"date"`
	Duration          flexInt    `json:"duration"`
	Service           string     `json:"service"`
	LaserAreas        []string   `json:"laserAreas,omitempty"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes"`
	CreatedAt         storedTime `json:"createdAt"`
	UpdatedAt         storedTime `json:"updatedAt"`
}

func appointmentToDoc(a *model.Appointment) appointmentDoc {
	areas := make([]string, 0, len(a.Service.LaserAreas))
	for _, area := range a.Service.LaserAreas {
		areas = append(areas, string(area))
	}
	return appointmentDoc{
		CustomerID:        a.CustomerID,
		CustomerPackageID: a.CustomerPackageID,
		Date:              newStoredTime(a.StartAt),
		Duration:          flexInt(a.DurationMinutes),
		Service:           string(a.Service.Kind),
		LaserAreas:        areas,
		Status:            string(a.Status),
		Notes:             a.Notes,
		CreatedAt:         newStoredTime(a.CreatedAt),
		UpdatedAt:         newStoredTime(a.UpdatedAt),
	}
}

func (d appointmentDoc) toModel(id string, version int64) model.Appointment {
	areas := make([]model.LaserArea, 0, len(d.LaserAreas))
	for _, area := range d.LaserAreas {
		areas = append(areas, model.LaserArea(area))
	}

	duration := int(d.Duration)
	if duration <= 0 {
		duration = model.DefaultDurationMinutes
	}
	status := model.AppointmentStatus(d.Status)
	if status == "" {
		status = model.AppointmentStatusConfirmed
	}

	return model.Appointment{
		ID:                id,
		CustomerID:        d.CustomerID,
		CustomerPackageID: d.CustomerPackageID,
		StartAt:           d.Date.Time,
		DurationMinutes:   duration,
		Service:           model.NewService(model.ServiceKind(d.Service), areas),
		Status:            status,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt.Time,
		UpdatedAt:         d.UpdatedAt.Time,
		Version:           version,
	}
}

type AppointmentRepository struct {
	st store.Store
	tx store.Tx
}

func NewAppointmentRepository(st store.Store) *AppointmentRepository {
	return &AppointmentRepository{st: st, tx: st}
}

// WithTx возвращает репозиторий, пишущий через транзакцию
func (r *AppointmentRepository) WithTx(tx store.Tx) *AppointmentRepository {
	return &AppointmentRepository{st: r.st, tx: tx}
}

// Create сохраняет новую запись и заполняет ID и версию
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	doc, err := encode(appointmentToDoc(a))
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	id, err := r.tx.Insert(ctx, store.CollectionAppointments, a.ID, doc)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}

	a.ID = id
	a.Version = 1
	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	rec, err := r.tx.Get(ctx, store.CollectionAppointments, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	doc, err := decode[appointmentDoc](rec)
	if err != nil {
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	a := doc.toModel(rec.ID, rec.Version)
	return &a, nil
}

// All возвращает все записи в хронологическом порядке
func (r *AppointmentRepository) All(ctx context.Context) ([]model.Appointment, error) {
	records, err := r.st.FetchAll(ctx, store.CollectionAppointments)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	appointments := make([]model.Appointment, 0, len(records))
	for _, rec := range records {
		doc, err := decode[appointmentDoc](rec)
		if err != nil {
			return nil, fmt.Errorf("list appointments: %w", err)
		}
		appointments = append(appointments, doc.toModel(rec.ID, rec.Version))
	}

	scheduling.SortByStart(appointments)
	return appointments, nil
}

// GetByCustomerID все записи клиента
func (r *AppointmentRepository) GetByCustomerID(ctx context.Context, customerID string) ([]model.Appointment, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	var result []model.Appointment
	for _, a := range all {
		if a.CustomerID == customerID {
			result = append(result, a)
		}
	}
	return result, nil
}

// Update перезаписывает изменяемые поля, если версия не изменилась с момента чтения
func (r *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	a.UpdatedAt = time.Now().UTC()

	doc, err := encode(appointmentToDoc(a))
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	delete(doc, "createdAt")
	// пустой список областей должен затереть старый
	doc["laserAreas"] = laserAreasValue(a.Service.LaserAreas)
	// отвязка от пакета: пустая строка должна дойти до хранилища
	doc["customerPackageId"] = a.CustomerPackageID

	if err := r.tx.CompareAndUpdate(ctx, store.CollectionAppointments, a.ID, a.Version, doc); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}

	a.Version++
	return nil
}

// Delete удаляет запись
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	if err := r.tx.Remove(ctx, store.CollectionAppointments, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

func laserAreasValue(areas []model.LaserArea) []any {
	out := make([]any, 0, len(areas))
	for _, area := range areas {
		out = append(out, string(area))
	}
	return out
}
