package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PackageService struct {
	st        store.Store
	templates *repository.PackageTemplateRepository
	packages  *repository.CustomerPackageRepository
	plans     *repository.PaymentPlanRepository
	customers *repository.CustomerRepository
	now       func() time.Time
	logger    *zap.Logger
}

func NewPackageService(
	st store.Store,
	templates *repository.PackageTemplateRepository,
	packages *repository.CustomerPackageRepository,
	plans *repository.PaymentPlanRepository,
	customers *repository.CustomerRepository,
	logger *zap.Logger,
) *PackageService {
	return &PackageService{
		st:        st,
		templates: templates,
		packages:  packages,
		plans:     plans,
		customers: customers,
		now:       time.Now,
		logger:    logger,
	}
}

// CreateTemplate создаёт шаблон пакета
func (s *PackageService) CreateTemplate(ctx context.Context, t *model.PackageTemplate) error {
	if err := validateTemplate(t); err != nil {
		return err
	}

	now := s.now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.templates.Create(ctx, t); err != nil {
		return fmt.Errorf("create package template: %w", err)
	}

	s.logger.Info("Package template created",
		zap.String("template_id", t.ID),
		zap.String("name", t.Name),
		zap.Float64("total_price", t.TotalPrice),
		zap.Int("installments", t.InstallmentCount),
	)
	return nil
}

func (s *PackageService) GetTemplate(ctx context.Context, id string) (*model.PackageTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *PackageService) ListTemplates(ctx context.Context) ([]model.PackageTemplate, error) {
	return s.templates.All(ctx)
}

// ListActiveTemplates шаблоны, доступные для продажи
func (s *PackageService) ListActiveTemplates(ctx context.Context) ([]model.PackageTemplate, error) {
	all, err := s.templates.All(ctx)
	if err != nil {
		return nil, err
	}

	var active []model.PackageTemplate
	for _, t := range all {
		if t.Active {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *PackageService) UpdateTemplate(ctx context.Context, t *model.PackageTemplate) error {
	if err := validateTemplate(t); err != nil {
		return err
	}

	if err := s.templates.Update(ctx, t); err != nil {
		return fmt.Errorf("update package template: %w", err)
	}

	s.logger.Info("Package template updated",
		zap.String("template_id", t.ID),
		zap.Bool("active", t.Active),
	)
	return nil
}

func (s *PackageService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete package template: %w", err)
	}

	s.logger.Info("Package template deleted", zap.String("template_id", id))
	return nil
}

// SellPackage продаёт пакет клиенту: пакет и план рассрочки пишутся
// одной транзакцией со ссылками друг на друга
func (s *PackageService) SellPackage(ctx context.Context, customerID, templateID string, startDate time.Time) (*model.CustomerPackage, *model.PaymentPlan, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, nil, fmt.Errorf("get customer: %w", err)
	}

	now := s.now().UTC()
	if startDate.IsZero() {
		startDate = now
	}

	packageID := uuid.NewString()
	planID := uuid.NewString()

	var (
		pkg  *model.CustomerPackage
		plan *model.PaymentPlan
	)
	err := s.st.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		tpl, err := s.templates.WithTx(tx).GetByID(ctx, templateID)
		if err != nil {
			return fmt.Errorf("get package template: %w", err)
		}
		if !tpl.Active {
			return fmt.Errorf("sell %s: %w", tpl.Name, ErrTemplateInactive)
		}

		built, err := ledger.NewPlan(customerID, packageID, *tpl, now)
		if err != nil {
			return fmt.Errorf("build payment plan: %w", err)
		}
		built.ID = planID
		plan = &built

		pkg = &model.CustomerPackage{
			ID:                packageID,
			CustomerID:        customerID,
			PackageTemplateID: tpl.ID,
			PackageName:       tpl.Name,
			ServiceType:       model.DefaultPackageServiceType,
			LaserAreas:        tpl.LaserAreas,
			TotalSessions:     tpl.TotalSessions,
			RemainingSessions: tpl.TotalSessions,
			TotalPrice:        tpl.TotalPrice,
			StartDate:         startDate,
			Status:            model.CustomerPackageStatusActive,
			PaymentPlanID:     planID,
			CreatedAt:         now,
		}

		if err := s.packages.WithTx(tx).Create(ctx, pkg); err != nil {
			return err
		}
		return s.plans.WithTx(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("sell package: %w", err)
	}

	s.logger.Info("Package sold",
		zap.String("customer_id", customerID),
		zap.String("customer_package_id", pkg.ID),
		zap.String("payment_plan_id", plan.ID),
		zap.String("package", pkg.PackageName),
		zap.Float64("total_price", pkg.TotalPrice),
	)

	return pkg, plan, nil
}

func (s *PackageService) GetCustomerPackage(ctx context.Context, id string) (*model.CustomerPackage, error) {
	return s.packages.GetByID(ctx, id)
}

// CustomerPackages пакеты клиента
func (s *PackageService) CustomerPackages(ctx context.Context, customerID string) ([]model.CustomerPackage, error) {
	return s.packages.GetByCustomerID(ctx, customerID)
}

// ConsumeSession вручную списывает один сеанс пакета.
// Пакет с нулём оставшихся сеансов становится completed.
func (s *PackageService) ConsumeSession(ctx context.Context, packageID string) (*model.CustomerPackage, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("get customer package: %w", err)
	}

	if pkg.Status != model.CustomerPackageStatusActive || pkg.RemainingSessions <= 0 {
		return nil, fmt.Errorf("consume session of %s: %w", packageID, ErrNoSessionsLeft)
	}

	pkg.RemainingSessions--
	if pkg.RemainingSessions == 0 {
		pkg.Status = model.CustomerPackageStatusCompleted
	}

	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update customer package: %w", err)
	}

	s.logger.Info("Package session consumed",
		zap.String("customer_package_id", packageID),
		zap.Int("remaining_sessions", pkg.RemainingSessions),
	)
	return pkg, nil
}

// DeleteCustomerPackage удаляет пакет вместе с его планом рассрочки
func (s *PackageService) DeleteCustomerPackage(ctx context.Context, id string) error {
	err := s.st.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		pkg, err := s.packages.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}

		// все чтения до первой записи: Firestore проверяет удаление только при коммите
		hasPlan := false
		if pkg.PaymentPlanID != "" {
			_, err := s.plans.WithTx(tx).GetByID(ctx, pkg.PaymentPlanID)
			switch {
			case err == nil:
				hasPlan = true
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if err := s.packages.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		if !hasPlan {
			return nil
		}
		return s.plans.WithTx(tx).Delete(ctx, pkg.PaymentPlanID)
	})
	if err != nil {
		return fmt.Errorf("delete customer package: %w", err)
	}

	s.logger.Info("Customer package deleted", zap.String("customer_package_id", id))
	return nil
}

func validateTemplate(t *model.PackageTemplate) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("package name is required")
	}
	if t.TotalPrice <= 0 {
		return invalid("total price must be positive")
	}
	if t.InstallmentCount <= 0 {
		return invalid("installment count must be positive")
	}
	if t.InstallmentAmount < 0 {
		return invalid("installment amount must not be negative")
	}
	if t.TotalSessions < 0 {
		return invalid("total sessions must not be negative")
	}
	return nil
}
