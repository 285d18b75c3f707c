package keyboard

import (
	"testing"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderGrid(t *testing.T) {
	b := NewBuilder().Grid(2, Button("a", "a"), Button("b", "b"), Button("c", "c"))
	kb := b.Build()

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "c", kb.InlineKeyboard[1][0].CallbackData)
}

func TestBuilderPager(t *testing.T) {
	assert.Empty(t, NewBuilder().Pager("p:", 0, 1).Build().InlineKeyboard)

	first := NewBuilder().Pager("p:", 0, 3).Build().InlineKeyboard
	require.Len(t, first, 1)
	require.Len(t, first[0], 2)
	assert.Equal(t, NoopData, first[0][0].CallbackData)
	assert.Equal(t, "p:1", first[0][1].CallbackData)

	last := NewBuilder().Pager("p:", 2, 3).Build().InlineKeyboard
	require.Len(t, last[0], 2)
	assert.Equal(t, "p:1", last[0][0].CallbackData)
	assert.Equal(t, "📄 3/3", last[0][1].Text)
}

func TestWeekNavigation(t *testing.T) {
	current := WeekNavigation("w:", 0).InlineKeyboard
	require.Len(t, current[0], 2)
	assert.Equal(t, "w:-1", current[0][0].CallbackData)
	assert.Equal(t, "w:1", current[0][1].CallbackData)

	later := WeekNavigation("w:", 2).InlineKeyboard
	require.Len(t, later[0], 3)
	assert.Equal(t, "w:0", later[0][1].CallbackData)
}

func TestServiceKeyboard(t *testing.T) {
	kb := ServiceKeyboard("svc:", "abort")

	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	assert.Len(t, data, len(model.KnownServices)+1)
	assert.Equal(t, "svc:0", data[0])
	assert.Equal(t, "abort", data[len(data)-1])
}

func TestTimeKeyboard_SkipsOccupied(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	slots := []scheduling.Slot{
		{Start: day.Add(9 * time.Hour)},
		{Start: day.Add(9*time.Hour + 30*time.Minute), Occupied: true},
		{Start: day.Add(10 * time.Hour)},
	}

	kb := TimeKeyboard("t:", "abort", slots)

	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "t:0900", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "t:1000", kb.InlineKeyboard[0][1].CallbackData)
}
