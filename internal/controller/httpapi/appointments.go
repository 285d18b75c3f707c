package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/go-chi/chi/v5"
)

type bookRequest struct {
	CustomerID        string                  `json:"customer_id"`
	CustomerPackageID string                  `json:"customer_package_id"`
	StartAt           time.Time               `json:"start_at"`
	DurationMinutes   int                     `json:"duration_minutes"`
	Service           model.Service           `json:"service"`
	Status            model.AppointmentStatus `json:"status"`
	Notes             string                  `json:"notes"`
	Force             bool                    `json:"force"`
}

type bookResponse struct {
	Appointment *model.Appointment  `json:"appointment"`
	Conflicts   []model.Appointment `json:"conflicts"`
}

func newBookResponse(res *service.BookResult) bookResponse {
	return bookResponse{Appointment: res.Appointment, Conflicts: emptyIfNil(res.Conflicts)}
}

// listAppointments GET /appointments?filter=all|upcoming|past
func (a *API) listAppointments(w http.ResponseWriter, r *http.Request) {
	filter := scheduling.TimeFilter(r.URL.Query().Get("filter"))
	switch filter {
	case "":
		filter = scheduling.FilterAll
	case scheduling.FilterAll, scheduling.FilterUpcoming, scheduling.FilterPast:
	default:
		writeError(w, http.StatusBadRequest, "unknown filter "+string(filter))
		return
	}

	appointments, err := a.appointments.List(r.Context(), filter)
	if err != nil {
		a.fail(w, r, "list appointments", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(appointments))
}

// bookAppointment POST /appointments. При политике block пересечение даёт 409 со списком записей.
func (a *API) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := a.appointments.Book(r.Context(), service.BookRequest{
		CustomerID:        req.CustomerID,
		CustomerPackageID: req.CustomerPackageID,
		StartAt:           req.StartAt,
		DurationMinutes:   req.DurationMinutes,
		Service:           req.Service,
		Status:            req.Status,
		Notes:             req.Notes,
		Force:             req.Force,
	})
	if err != nil {
		a.fail(w, r, "book appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, newBookResponse(res))
}

type conflictRequest struct {
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	ExcludeID       string    `json:"exclude_id"`
}

func (a *API) checkConflict(w http.ResponseWriter, r *http.Request) {
	var req conflictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	conflicts, err := a.appointments.CheckConflict(r.Context(), req.StartAt, req.DurationMinutes, req.ExcludeID)
	if err != nil {
		a.fail(w, r, "check conflict", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_conflict": len(conflicts) > 0,
		"conflicts":    emptyIfNil(conflicts),
	})
}

func (a *API) getAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := a.appointments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "get appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

type detailsRequest struct {
	Service           *model.Service `json:"service"`
	Notes             *string        `json:"notes"`
	CustomerPackageID *string        `json:"customer_package_id"`
}

func (a *API) updateAppointmentDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	appointment, err := a.appointments.UpdateDetails(r.Context(), chi.URLParam(r, "id"), service.DetailsUpdate{
		Service:           req.Service,
		Notes:             req.Notes,
		CustomerPackageID: req.CustomerPackageID,
	})
	if err != nil {
		a.fail(w, r, "update appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := a.appointments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "delete appointment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rescheduleRequest struct {
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"` // 0 оставляет прежнюю
	Force           bool      `json:"force"`
}

func (a *API) rescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := a.appointments.Reschedule(r.Context(), chi.URLParam(r, "id"), req.StartAt, req.DurationMinutes, req.Force)
	if err != nil {
		a.fail(w, r, "reschedule appointment", err)
		return
	}
	writeJSON(w, http.StatusOK, newBookResponse(res))
}

type statusRequest struct {
	Status model.AppointmentStatus `json:"status"`
	Force  bool                    `json:"force"`
}

func (a *API) changeAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := a.appointments.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Force)
	if err != nil {
		a.fail(w, r, "change appointment status", err)
		return
	}
	writeJSON(w, http.StatusOK, newBookResponse(res))
}
