package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func (a *API) agenda(w http.ResponseWriter, r *http.Request) {
	agenda, err := a.appointments.Agenda(r.Context())
	if err != nil {
		a.fail(w, r, "build agenda", err)
		return
	}
	agenda.Today = emptyIfNil(agenda.Today)
	agenda.Tomorrow = emptyIfNil(agenda.Tomorrow)
	writeJSON(w, http.StatusOK, agenda)
}

// day GET /calendar/days/{date}
func (a *API) day(w http.ResponseWriter, r *http.Request) {
	day, err := a.parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	appointments, err := a.appointments.Day(r.Context(), day)
	if err != nil {
		a.fail(w, r, "list day", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(appointments))
}

func (a *API) daySlots(w http.ResponseWriter, r *http.Request) {
	day, err := a.parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	slots, err := a.appointments.DaySlots(r.Context(), day)
	if err != nil {
		a.fail(w, r, "list slots", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(slots))
}

// week GET /calendar/weeks/{date}: семь дней начиная с date
func (a *API) week(w http.ResponseWriter, r *http.Request) {
	start, err := a.parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	appointments, err := a.appointments.Week(r.Context(), start)
	if err != nil {
		a.fail(w, r, "list week", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(appointments))
}

func (a *API) month(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1..12")
		return
	}

	appointments, err := a.appointments.Month(r.Context(), time.Month(month), year)
	if err != nil {
		a.fail(w, r, "list month", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(appointments))
}
