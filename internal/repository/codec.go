package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
)

// storedTime момент времени в документе.
// Пишется как {seconds, nanoseconds}; читаются также {_seconds}, числа epoch,
// строки RFC 3339 и даты, а также нативные значения драйверов.
type storedTime struct {
	time.Time
}

type timestampJSON struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func newStoredTime(t time.Time) storedTime {
	return storedTime{Time: t}
}

func newStoredTimePtr(t *time.Time) *storedTime {
	if t == nil {
		return nil
	}
	return &storedTime{Time: *t}
}

func (t storedTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(timestampJSON{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())})
}

func (t *storedTime) UnmarshalJSON(b []byte) error {
	parsed, err := parseTime(b)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ptr nil для пустого значения
func (t *storedTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// calendarDate дата без времени, хранится строкой YYYY-MM-DD
type calendarDate struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d calendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *calendarDate) UnmarshalJSON(b []byte) error {
	parsed, err := parseTime(b)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

func parseTime(b []byte) (time.Time, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return time.Time{}, nil
	}

	switch b[0] {
	case '{':
		var raw struct {
			Seconds      *float64 `json:"seconds"`
			Nanoseconds  float64  `json:"nanoseconds"`
			USeconds     *float64 `json:"_seconds"`
			UNanoseconds float64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return time.Time{}, fmt.Errorf("decode timestamp: %w", err)
		}
		switch {
		case raw.Seconds != nil:
			return time.Unix(int64(*raw.Seconds), int64(raw.Nanoseconds)).UTC(), nil
		case raw.USeconds != nil:
			return time.Unix(int64(*raw.USeconds), int64(raw.UNanoseconds)).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("decode timestamp: no seconds in %s", b)

	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}, fmt.Errorf("decode timestamp: %w", err)
		}
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("decode timestamp: unknown format %q", s)

	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("decode timestamp: %w", err)
		}
		// числа больше 1e12 это миллисекунды
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC(), nil
		}
		return time.Unix(int64(n), 0).UTC(), nil
	}
}

// flexInt число, которое в старых документах могло быть строкой
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	v, err := parseNumber(b)
	if err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

// flexFloat денежная сумма, которая могла быть сохранена строкой
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	v, err := parseNumber(b)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func parseNumber(b []byte) (float64, error) {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("decode number: %w", err)
	}
	return v, nil
}

// encode превращает структуру документа в store.Document
func encode(v any) (store.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// decode читает запись хранилища в структуру документа
func decode[T any](rec store.Record) (T, error) {
	var out T
	b, err := json.Marshal(rec.Data)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", rec.ID, err)
	}
	return out, nil
}
