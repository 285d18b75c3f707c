package scheduling

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(appointments []model.Appointment) []string {
	result := make([]string, len(appointments))
	for i, a := range appointments {
		result[i] = a.ID
	}
	return result
}

func TestListForDay(t *testing.T) {
	all := []model.Appointment{
		appt("late", at(17, 0), 60, model.AppointmentStatusConfirmed),
		appt("early", at(9, 0), 60, model.AppointmentStatusCancelled),
		appt("yesterday", at(-1, 0), 60, model.AppointmentStatusConfirmed),
		appt("tomorrow", at(24, 0), 60, model.AppointmentStatusConfirmed),
	}

	assert.Equal(t, []string{"early", "late"}, ids(ListForDay(day.Add(12*time.Hour), all)))
}

func TestListForDay_UsesDayLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	// 22:30 UTC 9 марта = 01:30 10 марта по Стамбулу
	a := appt("night", time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC), 60, model.AppointmentStatusConfirmed)

	local := time.Date(2026, 3, 10, 0, 0, 0, 0, istanbul)
	assert.Equal(t, []string{"night"}, ids(ListForDay(local, []model.Appointment{a})))
	assert.Empty(t, ListForDay(day, []model.Appointment{a}))
}

func TestListForMonth(t *testing.T) {
	all := []model.Appointment{
		appt("march-late", time.Date(2026, 3, 31, 17, 0, 0, 0, time.UTC), 60, model.AppointmentStatusConfirmed),
		appt("march-early", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), 60, model.AppointmentStatusConfirmed),
		appt("april", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), 60, model.AppointmentStatusConfirmed),
		appt("last-year", time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), 60, model.AppointmentStatusConfirmed),
	}

	assert.Equal(t, []string{"march-early", "march-late"}, ids(ListForMonth(time.March, 2026, time.UTC, all)))
}

func TestFilterByTime(t *testing.T) {
	now := at(12, 0)
	all := []model.Appointment{
		appt("past", at(9, 0), 60, model.AppointmentStatusCompleted),
		appt("now", at(12, 0), 60, model.AppointmentStatusConfirmed),
		appt("future", at(15, 0), 60, model.AppointmentStatusConfirmed),
	}

	assert.Equal(t, []string{"now", "future"}, ids(FilterByTime(now, all, FilterUpcoming)))
	assert.Equal(t, []string{"past"}, ids(FilterByTime(now, all, FilterPast)))
	assert.Len(t, FilterByTime(now, all, FilterAll), 3)
}

func TestBuildAgenda(t *testing.T) {
	now := at(8, 0)
	all := []model.Appointment{
		appt("today", at(10, 0), 60, model.AppointmentStatusConfirmed),
		appt("tomorrow", at(24+11, 0), 60, model.AppointmentStatusConfirmed),
		appt("later-1", at(48+9, 0), 60, model.AppointmentStatusConfirmed),
		appt("later-2", at(24*7, 0), 60, model.AppointmentStatusConfirmed),
		appt("past", at(-24, 0), 60, model.AppointmentStatusConfirmed),
	}

	agenda := BuildAgenda(now, all)
	require.Len(t, agenda.Today, 1)
	require.Len(t, agenda.Tomorrow, 1)
	assert.Equal(t, "today", agenda.Today[0].ID)
	assert.Equal(t, "tomorrow", agenda.Tomorrow[0].ID)
	assert.Equal(t, 2, agenda.UpcomingCount)
}
