package handlers

import (
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/state"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	appointments *service.AppointmentService
	customers    *service.CustomerService
	payments     *service.PaymentService
	stateManager *state.Manager
	now          func() time.Time
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	appointments *service.AppointmentService,
	customers *service.CustomerService,
	payments *service.PaymentService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		appointments: appointments,
		customers:    customers,
		payments:     payments,
		stateManager: stateManager,
		now:          time.Now,
		logger:       logger,
	}
}

// today текущий момент в часовом поясе салона
func (h *Handlers) today() time.Time {
	return h.now().In(h.appointments.Location())
}
