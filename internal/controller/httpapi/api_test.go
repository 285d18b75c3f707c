package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := memory.New()
	logger := zap.NewNop()
	locker := lock.NewLocal()

	customerRepo := repository.NewCustomerRepository(st)
	appointmentRepo := repository.NewAppointmentRepository(st)
	planRepo := repository.NewPaymentPlanRepository(st)

	api := New(
		service.NewAppointmentService(appointmentRepo, customerRepo, locker, service.AppointmentOptions{
			Policy:   service.ConflictPolicyBlock,
			Slots:    scheduling.DefaultSlotOptions(),
			Location: istanbul,
		}, logger),
		service.NewCustomerService(customerRepo, logger),
		service.NewPackageService(st,
			repository.NewPackageTemplateRepository(st),
			repository.NewCustomerPackageRepository(st),
			planRepo, customerRepo, logger),
		service.NewPaymentService(planRepo, locker, logger),
		logger,
	)

	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

// call отправляет JSON и декодирует ответ в out, если он задан
func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createCustomer(t *testing.T, srv *httptest.Server, name, phone string) model.Customer {
	t.Helper()
	var c model.Customer
	status := call(t, srv, http.MethodPost, "/customers", map[string]string{"name": name, "phone": phone}, &c)
	require.Equal(t, http.StatusCreated, status)
	return c
}

func slot(day, hour, minute int) time.Time {
	return time.Date(2030, time.June, day, hour, minute, 0, 0, istanbul)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestCustomers(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Ayşe Yılmaz", "+90 555 111 22 33")

	var list []model.Customer
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/customers?q="+url.QueryEscape("ayşe"), nil, &list))
	assert.Len(t, list, 1)

	var found model.Customer
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/customers/by-phone/905551112233", nil, &found))
	assert.Equal(t, c.ID, found.ID)

	var updated model.Customer
	status := call(t, srv, http.MethodPut, "/customers/"+c.ID,
		map[string]any{"name": "Ayşe Kaya", "phone": c.Phone, "version": c.Version}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ayşe Kaya", updated.Name)

	// устаревшая версия
	var errBody errorResponse
	status = call(t, srv, http.MethodPut, "/customers/"+c.ID,
		map[string]any{"name": "Ayşe", "phone": c.Phone, "version": c.Version}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	status = call(t, srv, http.MethodPost, "/customers", map[string]string{"name": "Boş"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, srv, http.MethodPost, "/customers", map[string]string{"nmae": "typo"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/customers/"+c.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/customers/"+c.ID, nil, &errBody))
}

func TestAppointments_BookConflictAndCalendar(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Ayşe", "+90 555 111 22 33")

	massage := model.Service{Kind: model.ServiceMassage}
	var booked bookResponse
	status := call(t, srv, http.MethodPost, "/appointments", map[string]any{
		"customer_id":      c.ID,
		"start_at":         slot(10, 10, 0),
		"duration_minutes": 90,
		"service":          massage,
	}, &booked)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, booked.Appointment)
	assert.Empty(t, booked.Conflicts)

	// пересечение при политике block
	var errBody errorResponse
	status = call(t, srv, http.MethodPost, "/appointments", map[string]any{
		"customer_id":      c.ID,
		"start_at":         slot(10, 11, 0),
		"duration_minutes": 60,
		"service":          massage,
	}, &errBody)
	require.Equal(t, http.StatusConflict, status)
	require.Len(t, errBody.Conflicts, 1)
	assert.Equal(t, booked.Appointment.ID, errBody.Conflicts[0].ID)

	// принудительная запись
	var forced bookResponse
	status = call(t, srv, http.MethodPost, "/appointments", map[string]any{
		"customer_id":      c.ID,
		"start_at":         slot(10, 11, 0),
		"duration_minutes": 60,
		"service":          massage,
		"force":            true,
	}, &forced)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, forced.Conflicts, 1)

	var check map[string]any
	status = call(t, srv, http.MethodPost, "/appointments/conflicts", map[string]any{
		"start_at":         slot(10, 11, 30),
		"duration_minutes": 30,
	}, &check)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, check["has_conflict"])

	var day []model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/calendar/days/2030-06-10", nil, &day))
	assert.Len(t, day, 2)

	var slots []scheduling.Slot
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/calendar/days/2030-06-10/slots", nil, &slots))
	require.Len(t, slots, 19)
	assert.True(t, slots[2].Occupied)  // 10:00
	assert.False(t, slots[0].Occupied) // 09:00

	var month []model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/calendar/months/2030/6", nil, &month))
	assert.Len(t, month, 2)

	var week []model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/calendar/weeks/2030-06-08", nil, &week))
	assert.Len(t, week, 2)

	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/calendar/days/10.06.2030", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/calendar/months/2030/13", nil, &errBody))

	var agenda scheduling.Agenda
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/calendar/agenda", nil, &agenda))
	assert.Equal(t, 2, agenda.UpcomingCount)

	var mine []model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/customers/"+c.ID+"/appointments", nil, &mine))
	assert.Len(t, mine, 2)
}

func TestAppointments_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Ayşe", "+90 555 111 22 33")

	var booked bookResponse
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/appointments", map[string]any{
		"customer_id": c.ID,
		"start_at":    slot(11, 14, 0),
		"service":     model.Service{Kind: model.ServiceSkinCare},
	}, &booked))
	id := booked.Appointment.ID
	assert.Equal(t, model.DefaultDurationMinutes, booked.Appointment.DurationMinutes)

	var moved bookResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/appointments/"+id+"/reschedule",
		map[string]any{"start_at": slot(11, 15, 0)}, &moved))
	assert.True(t, slot(11, 15, 0).Equal(moved.Appointment.StartAt))

	var details model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPatch, "/appointments/"+id,
		map[string]any{"notes": " ilk seans "}, &details))
	assert.Equal(t, "ilk seans", details.Notes)

	var changed bookResponse
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/appointments/"+id+"/status",
		map[string]any{"status": model.AppointmentStatusCancelled}, &changed))
	assert.Equal(t, model.AppointmentStatusCancelled, changed.Appointment.Status)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPost, "/appointments/"+id+"/status",
		map[string]any{"status": "archived"}, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/appointments?filter=soon", nil, &errBody))

	var upcoming []model.Appointment
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/appointments?filter=upcoming", nil, &upcoming))
	assert.Len(t, upcoming, 1)

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/appointments/"+id, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/appointments/"+id, nil, &errBody))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodDelete, "/appointments/"+id, nil, &errBody))
}

func TestPackagesAndPayments(t *testing.T) {
	srv := newTestServer(t)
	c := createCustomer(t, srv, "Zeynep", "+90 555 999 88 77")

	var tpl model.PackageTemplate
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/templates", map[string]any{
		"name":              "Tam vücut lazer",
		"total_price":       3000,
		"installment_count": 3,
		"total_sessions":    2,
	}, &tpl))
	assert.True(t, tpl.Active)

	var templates []model.PackageTemplate
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/templates?active=true", nil, &templates))
	assert.Len(t, templates, 1)

	var sold struct {
		Package model.CustomerPackage `json:"package"`
		Plan    model.PaymentPlan     `json:"plan"`
	}
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/packages", map[string]any{
		"customer_id": c.ID,
		"template_id": tpl.ID,
	}, &sold))
	assert.Equal(t, sold.Plan.ID, sold.Package.PaymentPlanID)
	require.Len(t, sold.Plan.Installments, 3)

	// платёж больше взноса переносится на следующий
	var plan model.PaymentPlan
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/plans/"+sold.Plan.ID+"/payments",
		map[string]any{"installment_index": 1, "amount": 1500}, &plan))
	assert.Equal(t, 1, plan.PaidInstallments)

	var totals struct {
		Paid      float64 `json:"paid"`
		Remaining float64 `json:"remaining"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/plans/"+sold.Plan.ID+"/totals", nil, &totals))
	assert.InDelta(t, 1500, totals.Paid, 0.001)
	assert.InDelta(t, 1500, totals.Remaining, 0.001)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPost, "/plans/"+sold.Plan.ID+"/payments",
		map[string]any{"installment_index": 1, "amount": 0}, &errBody))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPost, "/plans/"+sold.Plan.ID+"/payments",
		map[string]any{"installment_index": 9, "amount": 10}, &errBody))

	var outstanding []model.PaymentPlan
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/plans/outstanding", nil, &outstanding))
	assert.Len(t, outstanding, 1)

	var plans []model.PaymentPlan
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/customers/"+c.ID+"/plans", nil, &plans))
	assert.Len(t, plans, 1)

	var pkg model.CustomerPackage
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/packages/"+sold.Package.ID+"/consume", nil, &pkg))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/packages/"+sold.Package.ID+"/consume", nil, &pkg))
	assert.Equal(t, model.CustomerPackageStatusCompleted, pkg.Status)
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/packages/"+sold.Package.ID+"/consume", nil, &errBody))

	// неактивный шаблон не продаётся
	var inactive model.PackageTemplate
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPut, "/templates/"+tpl.ID, map[string]any{
		"name":              tpl.Name,
		"total_price":       tpl.TotalPrice,
		"installment_count": tpl.InstallmentCount,
		"total_sessions":    tpl.TotalSessions,
		"active":            false,
		"version":           tpl.Version,
	}, &inactive))
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/packages", map[string]any{
		"customer_id": c.ID,
		"template_id": tpl.ID,
	}, &errBody))

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/packages/"+sold.Package.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/plans/"+sold.Plan.ID, nil, &errBody))
}
