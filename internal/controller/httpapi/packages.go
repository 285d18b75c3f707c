package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/go-chi/chi/v5"
)

type templateRequest struct {
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	TotalPrice        float64           `json:"total_price"`
	InstallmentCount  int               `json:"installment_count"`
	InstallmentAmount float64           `json:"installment_amount"`
	LaserAreas        []model.LaserArea `json:"laser_areas"`
	TotalSessions     int               `json:"total_sessions"`
	Active            *bool             `json:"active"` // по умолчанию true
	Version           int64             `json:"version"`
}

func (req templateRequest) apply(t *model.PackageTemplate) {
	t.Name = req.Name
	t.Description = req.Description
	t.TotalPrice = req.TotalPrice
	t.InstallmentCount = req.InstallmentCount
	t.InstallmentAmount = req.InstallmentAmount
	t.LaserAreas = req.LaserAreas
	t.TotalSessions = req.TotalSessions
	if req.Active != nil {
		t.Active = *req.Active
	}
}

// listTemplates GET /templates?active=true
func (a *API) listTemplates(w http.ResponseWriter, r *http.Request) {
	var (
		templates []model.PackageTemplate
		err       error
	)
	if r.URL.Query().Get("active") == "true" {
		templates, err = a.packages.ListActiveTemplates(r.Context())
	} else {
		templates, err = a.packages.ListTemplates(r.Context())
	}
	if err != nil {
		a.fail(w, r, "list templates", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(templates))
}

func (a *API) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t := model.PackageTemplate{Active: true}
	req.apply(&t)
	if err := a.packages.CreateTemplate(r.Context(), &t); err != nil {
		a.fail(w, r, "create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := a.packages.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get template", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := a.packages.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get template", err)
		return
	}
	req.apply(t)
	t.Version = req.Version
	t.UpdatedAt = time.Now().UTC()

	if err := a.packages.UpdateTemplate(r.Context(), t); err != nil {
		a.fail(w, r, "update template", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := a.packages.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sellRequest struct {
	CustomerID string    `json:"customer_id"`
	TemplateID string    `json:"template_id"`
	StartDate  time.Time `json:"start_date"` // пусто: сегодня
}

// sellPackage POST /packages: пакет и план создаются вместе
func (a *API) sellPackage(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pkg, plan, err := a.packages.SellPackage(r.Context(), req.CustomerID, req.TemplateID, req.StartDate)
	if err != nil {
		a.fail(w, r, "sell package", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"package": pkg,
		"plan":    plan,
	})
}

func (a *API) getPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := a.packages.GetCustomerPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get package", err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (a *API) deletePackage(w http.ResponseWriter, r *http.Request) {
	if err := a.packages.DeleteCustomerPackage(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "delete package", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) consumeSession(w http.ResponseWriter, r *http.Request) {
	pkg, err := a.packages.ConsumeSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "consume session", err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (a *API) packagePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := a.payments.PlanForPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get package plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
