package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/ledger"
	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string              `json:"error"`
	Conflicts []model.Appointment `json:"conflicts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor переводит доменную ошибку в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, ledger.ErrInstallmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, scheduling.ErrInvalidAppointmentInput),
		errors.Is(err, ledger.ErrInvalidPaymentAmount):
		return http.StatusBadRequest
	case errors.Is(err, scheduling.ErrConflictDetected),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, service.ErrTemplateInactive),
		errors.Is(err, service.ErrNoSessionsLeft):
		return http.StatusConflict
	case errors.Is(err, store.ErrStoreUnavailable),
		errors.Is(err, lock.ErrLockTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail пишет ответ об ошибке сервиса. Внутренние ошибки клиенту не раскрываются.
func (a *API) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("Request failed",
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}

	resp := errorResponse{Error: err.Error()}
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		resp.Conflicts = conflict.Conflicts
	}
	writeJSON(w, status, resp)
}

// parseDate принимает YYYY-MM-DD в часовом поясе салона
func (a *API) parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, a.appointments.Location())
}

// emptyIfNil чтобы клиенты получали [] вместо null
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
