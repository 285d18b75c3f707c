package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "0 ₺",
		300:       "300 ₺",
		1500:      "1 500 ₺",
		1234567:   "1 234 567 ₺",
		333.33:    "333,33 ₺",
		100.5:     "100,50 ₺",
		0.1 + 0.2: "0,30 ₺",
		-50:       "-50 ₺",
	}
	for amount, want := range cases {
		assert.Equal(t, want, FormatMoney(amount), "amount %v", amount)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30 мин", FormatDuration(30))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
	assert.Equal(t, "2 ч", FormatDuration(120))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "запись", PluralizeAppointments(1))
	assert.Equal(t, "записи", PluralizeAppointments(3))
	assert.Equal(t, "записей", PluralizeAppointments(5))
	assert.Equal(t, "записей", PluralizeAppointments(11))
	assert.Equal(t, "запись", PluralizeAppointments(21))
	assert.Equal(t, "сеанса", PluralizeSessions(22))
	assert.Equal(t, "клиентов", PluralizeCustomers(0))
}

func TestFormatService(t *testing.T) {
	laser := model.NewService(model.ServiceAlexLaser, []model.LaserArea{model.LaserAreaLeg, "custom_zone"})
	assert.Equal(t, "Лазер (александрит) (ноги, custom_zone)", FormatService(laser))

	assert.Equal(t, "Массаж", FormatService(model.NewService(model.ServiceMassage, nil)))
	assert.Equal(t, "peeling", FormatService(model.Service{Kind: "peeling"}))
}

func TestFormatAppointmentLine(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	a := model.Appointment{
		ID:              "a1",
		CustomerID:      "c1",
		StartAt:         start,
		DurationMinutes: 90,
		Service:         model.Service{Kind: model.ServiceMassage},
		Status:          model.AppointmentStatusConfirmed,
		Customer:        &model.Customer{Name: "Ayşe"},
	}
	assert.Equal(t, "✅ 14:00-15:30 Ayşe · Массаж", FormatAppointmentLine(a))

	a.Customer = nil
	assert.Contains(t, FormatAppointmentLine(a), "клиент c1")
}

func TestFormatDayList_Empty(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Сегодня: Вт, 10.03.2026\n\nЗаписей нет.", FormatDayList("Сегодня", day, nil))
}

func TestFormatSlots(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	slots := []scheduling.Slot{
		{Start: day.Add(9 * time.Hour)},
		{Start: day.Add(9*time.Hour + 30*time.Minute), Occupied: true},
	}
	text := FormatSlots(day, slots)
	assert.Contains(t, text, "🟢 09:00")
	assert.Contains(t, text, "🔴 09:30")
	assert.Contains(t, text, "Свободно: 1 из 2")
}

func TestFormatPlan(t *testing.T) {
	paid := 100.0
	partial := 50.0
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	plan := model.PaymentPlan{
		ID:               "p1",
		PackageName:      "Laser 6",
		TotalAmount:      300,
		PaidInstallments: 1,
		Status:           model.PaymentPlanStatusOngoing,
		Installments: []model.Installment{
			{Index: 1, Amount: 100, PaidAmount: &paid, Paid: true, PaymentDate: &date},
			{Index: 2, Amount: 100, PaidAmount: &partial, PaymentDate: &date},
			{Index: 3, Amount: 100},
		},
	}

	text := FormatPlan(plan)
	assert.Contains(t, text, "Осталось: 150 ₺")
	assert.Contains(t, text, "✅ #1: 100 ₺ из 100 ₺ · 01.03.2026")
	assert.Contains(t, text, "🟨 #2: 50 ₺ из 100 ₺")
	assert.Contains(t, text, "⬜️ #3: 0 ₺ из 100 ₺")
}

func TestFormatCustomerList(t *testing.T) {
	assert.Equal(t, "👥 Клиентов пока нет.", FormatCustomerList(nil, 0, 0))

	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	text := FormatCustomerList([]model.Customer{
		{Name: "Ayşe", Phone: "+90 555 111 2233", BirthDate: &birth},
		{Name: "Elif", Phone: "5552223344"},
	}, 10, 12)

	assert.Contains(t, text, "12 клиентов")
	assert.Contains(t, text, "11. Ayşe · +90 555 111 2233 · 🎂 17.05.1990")
	assert.Contains(t, text, "12. Elif · 5552223344")
}
