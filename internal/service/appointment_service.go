package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"go.uber.org/zap"
)

// ConflictPolicy что делать при пересечении записей
type ConflictPolicy string

const (
	ConflictPolicyBlock ConflictPolicy = "block" // отказать, если не указан Force
	ConflictPolicyWarn  ConflictPolicy = "warn"  // записать и вернуть пересечения
)

func (p ConflictPolicy) Valid() bool {
	return p == ConflictPolicyBlock || p == ConflictPolicyWarn
}

type AppointmentOptions struct {
	Policy   ConflictPolicy
	Slots    scheduling.SlotOptions
	Location *time.Location
}

type AppointmentService struct {
	appointments *repository.AppointmentRepository
	customers    *repository.CustomerRepository
	locker       lock.Locker
	opts         AppointmentOptions
	now          func() time.Time
	logger       *zap.Logger
}

func NewAppointmentService(
	appointments *repository.AppointmentRepository,
	customers *repository.CustomerRepository,
	locker lock.Locker,
	opts AppointmentOptions,
	logger *zap.Logger,
) *AppointmentService {
	if !opts.Policy.Valid() {
		opts.Policy = ConflictPolicyBlock
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Slots.GranularityMinutes == 0 {
		opts.Slots = scheduling.DefaultSlotOptions()
	}
	return &AppointmentService{
		appointments: appointments,
		customers:    customers,
		locker:       locker,
		opts:         opts,
		now:          time.Now,
		logger:       logger,
	}
}

// Location часовой пояс салона
func (s *AppointmentService) Location() *time.Location {
	return s.opts.Location
}

// SlotOptions рабочие часы и шаг сетки
func (s *AppointmentService) SlotOptions() scheduling.SlotOptions {
	return s.opts.Slots
}

type BookRequest struct {
	CustomerID        string
	CustomerPackageID string
	StartAt           time.Time
	DurationMinutes   int
	Service           model.Service
	Status            model.AppointmentStatus
	Notes             string
	Force             bool // записать несмотря на пересечения
}

// BookResult запись и пересечения, с которыми она всё же сохранена
type BookResult struct {
	Appointment *model.Appointment
	Conflicts   []model.Appointment
}

// Book создаёт запись, проверяя пересечения с календарём
func (s *AppointmentService) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, invalid("customer is required")
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = model.DefaultDurationMinutes
	}
	if req.Status == "" {
		req.Status = model.AppointmentStatusConfirmed
	}
	if !req.Status.Valid() {
		return nil, invalid("unknown status %q", req.Status)
	}
	if strings.TrimSpace(string(req.Service.Kind)) == "" {
		return nil, invalid("service is required")
	}

	candidate := scheduling.Candidate{StartAt: req.StartAt, DurationMinutes: req.DurationMinutes}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	release, err := acquire(ctx, s.locker, lock.CalendarKey)
	if err != nil {
		return nil, err
	}
	defer release()

	conflicts, err := s.conflicts(ctx, candidate, "", req.Status, req.Force)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appointment := &model.Appointment{
		CustomerID:        req.CustomerID,
		CustomerPackageID: req.CustomerPackageID,
		StartAt:           req.StartAt,
		DurationMinutes:   req.DurationMinutes,
		Service:           model.NewService(req.Service.Kind, req.Service.LaserAreas),
		Status:            req.Status,
		Notes:             strings.TrimSpace(req.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID),
		zap.String("customer_id", appointment.CustomerID),
		zap.Time("start_at", appointment.StartAt),
		zap.Int("duration_minutes", appointment.DurationMinutes),
		zap.String("service", appointment.Service.String()),
		zap.Int("conflicts", len(conflicts)),
	)

	appointment.Customer = customer
	return &BookResult{Appointment: appointment, Conflicts: conflicts}, nil
}

// Reschedule переносит запись на другое время и/или длительность
func (s *AppointmentService) Reschedule(ctx context.Context, id string, startAt time.Time, durationMinutes int, force bool) (*BookResult, error) {
	release, err := acquire(ctx, s.locker, lock.CalendarKey)
	if err != nil {
		return nil, err
	}
	defer release()

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	if durationMinutes == 0 {
		durationMinutes = appointment.DurationMinutes
	}
	candidate := scheduling.Candidate{StartAt: startAt, DurationMinutes: durationMinutes}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts(ctx, candidate, id, appointment.Status, force)
	if err != nil {
		return nil, err
	}

	previous := appointment.StartAt
	appointment.StartAt = startAt
	appointment.DurationMinutes = durationMinutes

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment rescheduled",
		zap.String("appointment_id", id),
		zap.Time("from", previous),
		zap.Time("to", startAt),
		zap.Int("duration_minutes", durationMinutes),
		zap.Int("conflicts", len(conflicts)),
	)

	return &BookResult{Appointment: appointment, Conflicts: conflicts}, nil
}

// ChangeStatus меняет статус записи. Возврат отменённой записи в календарь
// проверяет пересечения так же, как новое бронирование.
func (s *AppointmentService) ChangeStatus(ctx context.Context, id string, status model.AppointmentStatus, force bool) (*BookResult, error) {
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	release, err := acquire(ctx, s.locker, lock.CalendarKey)
	if err != nil {
		return nil, err
	}
	defer release()

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	var conflicts []model.Appointment
	if !appointment.BlocksCalendar() && status != model.AppointmentStatusCancelled {
		candidate := scheduling.Candidate{StartAt: appointment.StartAt, DurationMinutes: appointment.DurationMinutes}
		conflicts, err = s.conflicts(ctx, candidate, id, status, force)
		if err != nil {
			return nil, err
		}
	}

	previous := appointment.Status
	appointment.Status = status
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment status changed",
		zap.String("appointment_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	return &BookResult{Appointment: appointment, Conflicts: conflicts}, nil
}

type DetailsUpdate struct {
	Service           *model.Service
	Notes             *string
	CustomerPackageID *string
}

// UpdateDetails меняет поля, не влияющие на календарь
func (s *AppointmentService) UpdateDetails(ctx context.Context, id string, upd DetailsUpdate) (*model.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	if upd.Service != nil {
		if strings.TrimSpace(string(upd.Service.Kind)) == "" {
			return nil, invalid("service is required")
		}
		appointment.Service = model.NewService(upd.Service.Kind, upd.Service.LaserAreas)
	}
	if upd.Notes != nil {
		appointment.Notes = strings.TrimSpace(*upd.Notes)
	}
	if upd.CustomerPackageID != nil {
		appointment.CustomerPackageID = *upd.CustomerPackageID
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.logger.Info("Appointment details updated", zap.String("appointment_id", id))
	return appointment, nil
}

// Delete удаляет запись без архивации
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	release, err := acquire(ctx, s.locker, lock.CalendarKey)
	if err != nil {
		return err
	}
	defer release()

	if err := s.appointments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logger.Info("Appointment deleted", zap.String("appointment_id", id))
	return nil
}

// Get запись вместе с клиентом
func (s *AppointmentService) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	customer, err := s.customers.GetByID(ctx, appointment.CustomerID)
	if err == nil {
		appointment.Customer = customer
	}
	return appointment, nil
}

// CheckConflict возвращает записи, с которыми пересекается кандидат
func (s *AppointmentService) CheckConflict(ctx context.Context, startAt time.Time, durationMinutes int, excludeID string) ([]model.Appointment, error) {
	if durationMinutes == 0 {
		durationMinutes = model.DefaultDurationMinutes
	}

	all, err := s.appointments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	return scheduling.FindConflicts(scheduling.Candidate{StartAt: startAt, DurationMinutes: durationMinutes}, all, excludeID)
}

// DaySlots сетка слотов на день с отметкой занятости
func (s *AppointmentService) DaySlots(ctx context.Context, day time.Time) ([]scheduling.Slot, error) {
	all, err := s.appointments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	seq, err := scheduling.EnumerateDaySlots(day.In(s.opts.Location), all, s.opts.Slots)
	if err != nil {
		return nil, err
	}
	return scheduling.CollectSlots(seq), nil
}

// Day записи на календарный день в часовом поясе салона
func (s *AppointmentService) Day(ctx context.Context, day time.Time) ([]model.Appointment, error) {
	all, err := s.loadWithCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.ListForDay(day.In(s.opts.Location), all), nil
}

// Month записи за месяц
func (s *AppointmentService) Month(ctx context.Context, month time.Month, year int) ([]model.Appointment, error) {
	all, err := s.loadWithCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.ListForMonth(month, year, s.opts.Location, all), nil
}

// Week записи семи дней начиная с дня start (по календарю салона)
func (s *AppointmentService) Week(ctx context.Context, start time.Time) ([]model.Appointment, error) {
	all, err := s.loadWithCustomers(ctx)
	if err != nil {
		return nil, err
	}

	start = start.In(s.opts.Location)
	var week []model.Appointment
	for i := 0; i < 7; i++ {
		week = append(week, scheduling.ListForDay(start.AddDate(0, 0, i), all)...)
	}
	return week, nil
}

// Agenda сводка на сегодня и завтра
func (s *AppointmentService) Agenda(ctx context.Context) (scheduling.Agenda, error) {
	all, err := s.loadWithCustomers(ctx)
	if err != nil {
		return scheduling.Agenda{}, err
	}
	return scheduling.BuildAgenda(s.now().In(s.opts.Location), all), nil
}

// List записи с фильтром по времени
func (s *AppointmentService) List(ctx context.Context, filter scheduling.TimeFilter) ([]model.Appointment, error) {
	all, err := s.loadWithCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.FilterByTime(s.now(), all, filter), nil
}

// ByCustomer записи клиента
func (s *AppointmentService) ByCustomer(ctx context.Context, customerID string) ([]model.Appointment, error) {
	appointments, err := s.appointments.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer appointments: %w", err)
	}
	return appointments, nil
}

// conflicts применяет политику пересечений. Вызывать под блокировкой календаря.
func (s *AppointmentService) conflicts(ctx context.Context, candidate scheduling.Candidate, excludeID string, status model.AppointmentStatus, force bool) ([]model.Appointment, error) {
	if status == model.AppointmentStatusCancelled {
		return nil, nil
	}

	all, err := s.appointments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	conflicts, err := scheduling.FindConflicts(candidate, all, excludeID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && s.opts.Policy == ConflictPolicyBlock && !force {
		return nil, &scheduling.ConflictError{Conflicts: conflicts}
	}
	return conflicts, nil
}

func (s *AppointmentService) loadWithCustomers(ctx context.Context) ([]model.Appointment, error) {
	all, err := s.appointments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	customers, err := s.customers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	byID := make(map[string]*model.Customer, len(customers))
	for i := range customers {
		byID[customers[i].ID] = &customers[i]
	}

	for i := range all {
		all[i].Customer = byID[all[i].CustomerID]
	}
	return all, nil
}
