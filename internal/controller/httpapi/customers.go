package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/go-chi/chi/v5"
)

type customerRequest struct {
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birth_date"`
	Notes     string     `json:"notes"`
	Version   int64      `json:"version"` // обязателен при обновлении
}

func (req customerRequest) apply(c *model.Customer) {
	c.Name = req.Name
	c.Phone = req.Phone
	c.Email = req.Email
	c.BirthDate = req.BirthDate
	c.Notes = req.Notes
}

// listCustomers GET /customers?q=
func (a *API) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.customers.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.fail(w, r, "list customers", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(customers))
}

func (a *API) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var c model.Customer
	req.apply(&c)
	if err := a.customers.Create(r.Context(), &c); err != nil {
		a.fail(w, r, "create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := a.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) customerByPhone(w http.ResponseWriter, r *http.Request) {
	c, err := a.customers.FindByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		a.fail(w, r, "find customer by phone", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// updateCustomer PUT /customers/{id}; version из тела защищает от потерянных обновлений
func (a *API) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	c, err := a.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get customer", err)
		return
	}
	req.apply(c)
	c.Version = req.Version
	c.UpdatedAt = time.Now().UTC()

	if err := a.customers.Update(r.Context(), c); err != nil {
		a.fail(w, r, "update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := a.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) customerAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := a.appointments.ByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "list customer appointments", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(appointments))
}

func (a *API) customerPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := a.packages.CustomerPackages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "list customer packages", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(packages))
}

func (a *API) customerPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.payments.PlansForCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "list customer plans", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(plans))
}
