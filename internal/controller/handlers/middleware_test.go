package handlers

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAdminSet(t *testing.T) {
	admins := NewAdminSet([]int64{10, 20})
	assert.True(t, admins.Allows(10))
	assert.False(t, admins.Allows(30))
	assert.False(t, NewAdminSet(nil).Allows(10))
}

func TestAdminOnly_PassesAdmins(t *testing.T) {
	called := 0
	next := func(context.Context, *bot.Bot, *models.Update) { called++ }
	handler := AdminOnly(NewAdminSet([]int64{10}), zap.NewNop())(next)

	handler(context.Background(), nil, &models.Update{
		Message: &models.Message{From: &models.User{ID: 10}, Chat: models.Chat{ID: 10}},
	})
	handler(context.Background(), nil, &models.Update{
		CallbackQuery: &models.CallbackQuery{From: models.User{ID: 10}},
	})

	assert.Equal(t, 2, called)
}

func TestSenderID(t *testing.T) {
	_, ok := senderID(&models.Update{})
	assert.False(t, ok)

	id, ok := senderID(&models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 5}}})
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
}
