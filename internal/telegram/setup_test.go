package telegram

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/bot/handlers"
	"github.com/edgard/lingvobot/internal/telegram/telegramtest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewTelegramBotRejectsEmptyToken(t *testing.T) {
	_, err := NewTelegramBot("", discard)
	assert.Error(t, err)
}

func TestTokenPrefix(t *testing.T) {
	assert.Equal(t, "***", tokenPrefix("short"))
	assert.Equal(t, "test-tok...", tokenPrefix(telegramtest.Token))
}

func TestApplyMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, update *models.Update) {
				order = append(order, name)
				next(ctx, b, update)
			}
		}
	}
	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		order = append(order, "handler")
	}, []bot.Middleware{mw("outer"), mw("inner")})

	h(context.Background(), nil, &models.Update{})
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRegisterHandlers(t *testing.T) {
	client := telegramtest.NewClient()
	b := telegramtest.NewBot(t, client)

	called := make(chan struct{}, 1)
	regs := map[string]handlers.RegisteredHandler{
		"/ping": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "ping",
			MatchType:   bot.MatchTypeExact,
			Handler:     func(context.Context, *bot.Bot, *models.Update) { called <- struct{}{} },
		},
		"nil": {Pattern: "nil"},
	}
	require.NoError(t, RegisterHandlers(b, discard, regs))
	require.NoError(t, RegisterHandlers(b, discard, nil))
	assert.Error(t, RegisterHandlers(nil, discard, regs))

	b.ProcessUpdate(context.Background(), telegramtest.MessageUpdate("ping", 1))
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("registered handler was not called")
	}
}

func TestSetCommands(t *testing.T) {
	client := telegramtest.NewClient()
	b := telegramtest.NewBot(t, client)

	require.NoError(t, SetCommands(context.Background(), b, handlers.Commands()))

	last := client.Last(t)
	assert.Equal(t, "setMyCommands", last.Method)
	assert.Contains(t, last.Fields["commands"], `"quiz"`)
}
