package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
)

func customerName(a model.Appointment) string {
	if a.Customer != nil && a.Customer.Name != "" {
		return a.Customer.Name
	}
	return "клиент " + a.CustomerID
}

// FormatAppointmentLine одна строка списка: время, клиент, услуга
func FormatAppointmentLine(a model.Appointment) string {
	display := GetAppointmentStatusDisplay(a.Status)
	return fmt.Sprintf("%s %s %s · %s",
		display.Emoji,
		FormatTimeRange(a.StartAt, a.EndAt()),
		customerName(a),
		FormatService(a.Service),
	)
}

// FormatAppointment подробная карточка записи
func FormatAppointment(a model.Appointment) string {
	display := GetAppointmentStatusDisplay(a.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Запись %s\n\n", display.Emoji, a.ID)
	fmt.Fprintf(&b, "👤 %s\n", customerName(a))
	if a.Customer != nil && a.Customer.Phone != "" {
		fmt.Fprintf(&b, "📞 %s\n", a.Customer.Phone)
	}
	fmt.Fprintf(&b, "📅 %s\n", FormatDateWithWeekday(a.StartAt))
	fmt.Fprintf(&b, "🕐 %s (%s)\n", FormatTimeRange(a.StartAt, a.EndAt()), FormatDuration(int(a.Duration().Minutes())))
	fmt.Fprintf(&b, "💆 %s\n", FormatService(a.Service))
	fmt.Fprintf(&b, "📊 %s", display.Text)
	if a.Notes != "" {
		fmt.Fprintf(&b, "\n📝 %s", a.Notes)
	}
	return b.String()
}

// FormatDayList список записей дня с заголовком
func FormatDayList(title string, day time.Time, appointments []model.Appointment) string {
	header := fmt.Sprintf("%s: %s", title, FormatDateWithWeekday(day))
	if len(appointments) == 0 {
		return header + "\n\nЗаписей нет."
	}

	lines := make([]string, 0, len(appointments)+2)
	lines = append(lines, header, fmt.Sprintf("%d %s\n", len(appointments), PluralizeAppointments(len(appointments))))
	for _, a := range appointments {
		lines = append(lines, FormatAppointmentLine(a))
	}
	return strings.Join(lines, "\n")
}

// FormatConflicts перечисляет записи, с которыми пересекается новая
func FormatConflicts(conflicts []model.Appointment) string {
	lines := make([]string, 0, len(conflicts)+1)
	lines = append(lines, "⚠️ Пересечение с записями:")
	for _, a := range conflicts {
		lines = append(lines, "• "+FormatAppointmentLine(a))
	}
	return strings.Join(lines, "\n")
}

// FormatSlots сетка слотов дня: 🟢 свободно, 🔴 занято
func FormatSlots(day time.Time, slots []scheduling.Slot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓 Слоты на %s\n", FormatDateWithWeekday(day))

	free := 0
	for i, slot := range slots {
		mark := "🟢"
		if slot.Occupied {
			mark = "🔴"
		} else {
			free++
		}
		sep := "  "
		if i%4 == 0 {
			sep = "\n"
		}
		fmt.Fprintf(&b, "%s%s %s", sep, mark, FormatTime(slot.Start))
	}
	fmt.Fprintf(&b, "\n\nСвободно: %d из %d", free, len(slots))
	return b.String()
}

// FormatAgenda сводка на сегодня и завтра
func FormatAgenda(agenda scheduling.Agenda, today time.Time) string {
	var b strings.Builder
	b.WriteString(FormatDayList("📋 Сегодня", today, agenda.Today))
	b.WriteString("\n\n")
	b.WriteString(FormatDayList("📋 Завтра", today.AddDate(0, 0, 1), agenda.Tomorrow))
	if agenda.UpcomingCount > 0 {
		fmt.Fprintf(&b, "\n\nДальше: ещё %d %s", agenda.UpcomingCount, PluralizeAppointments(agenda.UpcomingCount))
	}
	return b.String()
}
