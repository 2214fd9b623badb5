package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "안녕하...", Truncate("안녕하세요 세계", 6))
	assert.Equal(t, "...", Truncate("abcdef", 2))
}

func TestMiddlewareCallbackWithoutMessage(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(&buf, "debug", true)

	called := false
	next := func(ctx context.Context, b *bot.Bot, update *models.Update) { called = true }

	update := &models.Update{
		ID: 7,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb",
			From: models.User{ID: 5},
			Data: "qz:abc:1",
		},
	}
	Middleware(log)(next)(context.Background(), nil, update)

	require.True(t, called)
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "callback_query", entry["update_type"])
	assert.Equal(t, "qz:abc:1", entry["data"])
	assert.NotContains(t, entry, "chat_id")
}

func TestSchedulerLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := NewSchedulerLogger(New(&buf, "debug", false))
	l.Warn("job missed", "job", "word_of_day")
	assert.Contains(t, buf.String(), "component=gocron")
	assert.Contains(t, buf.String(), "job=word_of_day")
}
