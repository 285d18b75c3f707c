// Package httpapi JSON API салона поверх сервисного слоя
package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type API struct {
	appointments *service.AppointmentService
	customers    *service.CustomerService
	packages     *service.PackageService
	payments     *service.PaymentService
	logger       *zap.Logger
}

func New(
	appointments *service.AppointmentService,
	customers *service.CustomerService,
	packages *service.PackageService,
	payments *service.PaymentService,
	logger *zap.Logger,
) *API {
	return &API{
		appointments: appointments,
		customers:    customers,
		packages:     packages,
		payments:     payments,
		logger:       logger,
	}
}

// Router собирает chi роутер со всеми маршрутами
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(a.accessLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", a.listCustomers)
		r.Post("/", a.createCustomer)
		r.Get("/by-phone/{phone}", a.customerByPhone)
		r.Get("/{id}", a.getCustomer)
		r.Put("/{id}", a.updateCustomer)
		r.Delete("/{id}", a.deleteCustomer)
		r.Get("/{id}/appointments", a.customerAppointments)
		r.Get("/{id}/packages", a.customerPackages)
		r.Get("/{id}/plans", a.customerPlans)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", a.listAppointments)
		r.Post("/", a.bookAppointment)
		r.Post("/conflicts", a.checkConflict)
		r.Get("/{id}", a.getAppointment)
		r.Patch("/{id}", a.updateAppointmentDetails)
		r.Delete("/{id}", a.deleteAppointment)
		r.Post("/{id}/reschedule", a.rescheduleAppointment)
		r.Post("/{id}/status", a.changeAppointmentStatus)
	})

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/agenda", a.agenda)
		r.Get("/days/{date}", a.day)
		r.Get("/days/{date}/slots", a.daySlots)
		r.Get("/weeks/{date}", a.week)
		r.Get("/months/{year}/{month}", a.month)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", a.listTemplates)
		r.Post("/", a.createTemplate)
		r.Get("/{id}", a.getTemplate)
		r.Put("/{id}", a.updateTemplate)
		r.Delete("/{id}", a.deleteTemplate)
	})

	r.Route("/packages", func(r chi.Router) {
		r.Post("/", a.sellPackage)
		r.Get("/{id}", a.getPackage)
		r.Delete("/{id}", a.deletePackage)
		r.Post("/{id}/consume", a.consumeSession)
		r.Get("/{id}/plan", a.packagePlan)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/outstanding", a.outstandingPlans)
		r.Get("/{id}", a.getPlan)
		r.Get("/{id}/totals", a.planTotals)
		r.Post("/{id}/payments", a.recordPayment)
	})

	return r
}

// accessLog пишет строку zap на каждый запрос
func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		a.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}
