package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/store/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

// fixedNow 9 марта 2026, 08:00 по Стамбулу
var fixedNow = time.Date(2026, time.March, 9, 8, 0, 0, 0, istanbul)

type fixture struct {
	st           *memory.Store
	customers    *CustomerService
	appointments *AppointmentService
	packages     *PackageService
	payments     *PaymentService
	paymentPlans *repository.PaymentPlanRepository
}

func newFixture(t *testing.T, policy ConflictPolicy) *fixture {
	t.Helper()

	st := memory.New()
	logger := zap.NewNop()
	locker := lock.NewLocal()

	customerRepo := repository.NewCustomerRepository(st)
	appointmentRepo := repository.NewAppointmentRepository(st)
	templateRepo := repository.NewPackageTemplateRepository(st)
	packageRepo := repository.NewCustomerPackageRepository(st)
	planRepo := repository.NewPaymentPlanRepository(st)

	appointments := NewAppointmentService(appointmentRepo, customerRepo, locker, AppointmentOptions{
		Policy:   policy,
		Slots:    scheduling.DefaultSlotOptions(),
		Location: istanbul,
	}, logger)
	appointments.now = func() time.Time { return fixedNow }

	packages := NewPackageService(st, templateRepo, packageRepo, planRepo, customerRepo, logger)
	packages.now = func() time.Time { return fixedNow }

	return &fixture{
		st:           st,
		customers:    NewCustomerService(customerRepo, logger),
		appointments: appointments,
		packages:     packages,
		payments:     NewPaymentService(planRepo, locker, logger),
		paymentPlans: planRepo,
	}
}

func (f *fixture) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: name, Phone: "+90 555 123 45 67"}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

// at время 10 марта 2026 по Стамбулу
func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, istanbul)
}
