package formatting

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "02.01.2006"
	clockLayout = "15:04"
)

// сокращения дней недели по индексу time.Weekday
var shortWeekdays = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateWithWeekday "Вт, 10.03.2026"
func FormatDateWithWeekday(t time.Time) string {
	return shortWeekdays[t.Weekday()] + ", " + t.Format(dateLayout)
}

func FormatTime(t time.Time) string {
	return t.Format(clockLayout)
}

// FormatTimeRange интервал записи, "10:00-11:30"
func FormatTimeRange(start, end time.Time) string {
	return start.Format(clockLayout) + "-" + end.Format(clockLayout)
}

// FormatDuration длительность услуги: "45 мин", "2 ч", "1 ч 30 мин"
func FormatDuration(minutes int) string {
	hours, rest := minutes/60, minutes%60

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d ч", hours))
	}
	if rest > 0 || hours == 0 {
		parts = append(parts, fmt.Sprintf("%d мин", rest))
	}
	return strings.Join(parts, " ")
}
