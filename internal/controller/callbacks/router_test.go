package callbacks

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordedCall struct {
	action string
	arg    any
}

type fakeActions struct {
	calls []recordedCall
}

func (f *fakeActions) record(action string, arg any) {
	f.calls = append(f.calls, recordedCall{action: action, arg: arg})
}

func (f *fakeActions) ChooseTime(_ context.Context, _ *bot.Bot, _ *models.CallbackQuery, clock string) {
	f.record("time", clock)
}

func (f *fakeActions) ChooseDuration(_ context.Context, _ *bot.Bot, _ *models.CallbackQuery, minutes int) {
	f.record("duration", minutes)
}

func (f *fakeActions) ChooseService(_ context.Context, _ *bot.Bot, _ *models.CallbackQuery, index int) {
	f.record("service", index)
}

func (f *fakeActions) ForceBooking(context.Context, *bot.Bot, *models.CallbackQuery) {
	f.record("force", nil)
}

func (f *fakeActions) AbortBooking(context.Context, *bot.Bot, *models.CallbackQuery) {
	f.record("abort", nil)
}

func (f *fakeActions) ShowCustomersPage(_ context.Context, _ *bot.Bot, _ *models.CallbackQuery, page int) {
	f.record("customers", page)
}

func (f *fakeActions) ShowWeek(_ context.Context, _ *bot.Bot, _ *models.CallbackQuery, offset int) {
	f.record("week", offset)
}

func TestRoute(t *testing.T) {
	cases := []struct {
		data string
		want recordedCall
	}{
		{"book_time:1430", recordedCall{"time", "1430"}},
		{"book_dur:90", recordedCall{"duration", 90}},
		{"book_svc:2", recordedCall{"service", 2}},
		{"book_force", recordedCall{"force", nil}},
		{"book_abort", recordedCall{"abort", nil}},
		{"customers_page:1", recordedCall{"customers", 1}},
		{"week:-1", recordedCall{"week", -1}},
	}

	for _, tc := range cases {
		t.Run(tc.data, func(t *testing.T) {
			actions := &fakeActions{}
			callback := &models.CallbackQuery{ID: "cb", Data: tc.data, From: models.User{ID: 7}}

			Route(context.Background(), nil, callback, actions, zap.NewNop())

			assert.Equal(t, []recordedCall{tc.want}, actions.calls)
		})
	}
}
