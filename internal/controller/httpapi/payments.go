package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (a *API) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := a.payments.Plan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (a *API) planTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := a.payments.Totals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "plan totals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (a *API) outstandingPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.payments.Outstanding(r.Context())
	if err != nil {
		a.fail(w, r, "list outstanding plans", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(plans))
}

type paymentRequest struct {
	InstallmentIndex int       `json:"installment_index"`
	Amount           float64   `json:"amount"`
	PaymentDate      time.Time `json:"payment_date"` // пусто: сейчас
}

// recordPayment POST /plans/{id}/payments
func (a *API) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	plan, err := a.payments.RecordPayment(r.Context(), chi.URLParam(r, "id"), req.InstallmentIndex, req.Amount, req.PaymentDate)
	if err != nil {
		a.fail(w, r, "record payment", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
