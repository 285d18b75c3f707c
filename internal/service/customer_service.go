package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"go.uber.org/zap"
)

type CustomerService struct {
	customers *repository.CustomerRepository
	logger    *zap.Logger
}

func NewCustomerService(customers *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

// Create регистрирует клиента; имя и телефон обязательны
func (s *CustomerService) Create(ctx context.Context, c *model.Customer) error {
	if err := validateCustomer(c); err != nil {
		return err
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.customers.Create(ctx, c); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", c.ID),
		zap.String("name", c.Name),
	)
	return nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.customers.All(ctx)
}

// FindByPhone ищет клиента по телефону в любом формате записи
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return s.customers.GetByPhone(ctx, phone)
}

// Search клиенты, у которых имя или телефон содержат запрос
func (s *CustomerService) Search(ctx context.Context, query string) ([]model.Customer, error) {
	all, err := s.customers.All(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	digits := model.NormalizePhone(query)

	var result []model.Customer
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			(digits != "" && strings.Contains(model.NormalizePhone(c.Phone), digits)) {
			result = append(result, c)
		}
	}
	return result, nil
}

// Update сохраняет изменения; c.Version должна совпадать с хранимой
func (s *CustomerService) Update(ctx context.Context, c *model.Customer) error {
	if err := validateCustomer(c); err != nil {
		return err
	}

	if err := s.customers.Update(ctx, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	s.logger.Info("Customer updated", zap.String("customer_id", c.ID))
	return nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.logger.Info("Customer deleted", zap.String("customer_id", id))
	return nil
}

func validateCustomer(c *model.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)

	if c.Name == "" {
		return invalid("customer name is required")
	}
	if model.NormalizePhone(c.Phone) == "" {
		return invalid("customer phone is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("invalid email %q", c.Email)
	}
	return nil
}
