package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/shopspring/decimal"
)

const (
	minDurationMinutes = 5
	maxDurationMinutes = 12 * 60
)

// parseDay разбирает дату: YYYY-MM-DD, DD.MM.YYYY, DD.MM (текущий год),
// "сегодня" и "завтра". Результат - полночь в loc.
func parseDay(text string, now time.Time, loc *time.Location) (time.Time, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch text {
	case "сегодня", "today":
		return today, nil
	case "завтра", "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	for _, layout := range []string{"2006-01-02", "02.01.2006", "2.1.2006"} {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"02.01", "2.1"} {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", common.ErrInvalidFormat, text)
}

// parseClock разбирает время HH:MM или HHMM и прикладывает его к дню
func parseClock(text string, day time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	var t time.Time
	var err error
	for _, layout := range []string{"15:04", "1504", "15.04"} {
		if t, err = time.Parse(layout, text); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time %q", common.ErrInvalidFormat, text)
}

// parseDuration длительность в минутах
func parseDuration(text string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || minutes < minDurationMinutes || minutes > maxDurationMinutes {
		return 0, fmt.Errorf("%w: duration %q", common.ErrInvalidFormat, text)
	}
	return minutes, nil
}

// parseAmount сумма платежа; допускается запятая как разделитель
func parseAmount(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", common.ErrInvalidFormat, text)
	}
	return d.Round(2).InexactFloat64(), nil
}

// payArgs аргументы команды /pay
type payArgs struct {
	PlanID string
	Index  int
	Amount float64
}

// parsePayArgs разбирает "/pay <planID> <index> <amount>"
func parsePayArgs(text string) (payArgs, error) {
	fields := commandArgs(text)
	if len(fields) != 3 {
		return payArgs{}, fmt.Errorf("%w: expected <plan> <index> <amount>", common.ErrInvalidFormat)
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 1 {
		return payArgs{}, fmt.Errorf("%w: installment index %q", common.ErrInvalidFormat, fields[1])
	}
	amount, err := parseAmount(fields[2])
	if err != nil {
		return payArgs{}, err
	}
	return payArgs{PlanID: fields[0], Index: index, Amount: amount}, nil
}

// commandArgs аргументы после команды; "/slots@salon_bot 2026-03-10" -> ["2026-03-10"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		fields = fields[1:]
	}
	return fields
}
