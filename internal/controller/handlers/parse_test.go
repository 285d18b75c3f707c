package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/callbacks/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC) // уже 10 марта в TRT

	cases := map[string]time.Time{
		"2026-03-12": time.Date(2026, 3, 12, 0, 0, 0, 0, istanbul),
		"12.03.2026": time.Date(2026, 3, 12, 0, 0, 0, 0, istanbul),
		"5.4.2026":   time.Date(2026, 4, 5, 0, 0, 0, 0, istanbul),
		"12.03":      time.Date(2026, 3, 12, 0, 0, 0, 0, istanbul),
		"сегодня":    time.Date(2026, 3, 10, 0, 0, 0, 0, istanbul),
		" Завтра ":   time.Date(2026, 3, 11, 0, 0, 0, 0, istanbul),
	}
	for text, want := range cases {
		got, err := parseDay(text, now, istanbul)
		require.NoError(t, err, text)
		assert.True(t, want.Equal(got), "%s: got %v want %v", text, got, want)
	}

	_, err := parseDay("next friday", now, istanbul)
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
	_, err = parseDay("2026-02-30", now, istanbul)
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, istanbul)

	for _, text := range []string{"14:30", "1430", "14.30"} {
		got, err := parseClock(text, day)
		require.NoError(t, err, text)
		assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, istanbul), got)
	}

	_, err := parseClock("25:00", day)
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestParseDuration(t *testing.T) {
	got, err := parseDuration(" 90 ")
	require.NoError(t, err)
	assert.Equal(t, 90, got)

	for _, text := range []string{"0", "-30", "abc", "1000"} {
		_, err := parseDuration(text)
		assert.ErrorIs(t, err, common.ErrInvalidFormat, text)
	}
}

func TestParsePayArgs(t *testing.T) {
	args, err := parsePayArgs("/pay plan-1 2 150,50")
	require.NoError(t, err)
	assert.Equal(t, payArgs{PlanID: "plan-1", Index: 2, Amount: 150.5}, args)

	args, err = parsePayArgs("/pay@salon_bot plan-1 1 100")
	require.NoError(t, err)
	assert.Equal(t, 100.0, args.Amount)

	for _, text := range []string{"/pay", "/pay plan-1 2", "/pay plan-1 x 100", "/pay plan-1 0 100", "/pay plan-1 1 abc"} {
		_, err := parsePayArgs(text)
		assert.ErrorIs(t, err, common.ErrInvalidFormat, text)
	}
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, []string{"2026-03-10"}, commandArgs("/slots 2026-03-10"))
	assert.Empty(t, commandArgs("/slots"))
}
