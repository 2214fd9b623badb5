package handlers

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/ratelimit"
	"github.com/edgard/lingvobot/internal/sanitize"
	"github.com/edgard/lingvobot/internal/telegram/telegramtest"
)

const adminID int64 = 999

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type modelCall struct {
	instruction string
	content     string
}

type fakeModel struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []modelCall
}

func (m *fakeModel) Generate(_ context.Context, instruction, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, modelCall{instruction: instruction, content: content})
	return m.reply, m.err
}

func (m *fakeModel) Calls() []modelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]modelCall(nil), m.calls...)
}

type fakeQuestions struct {
	prepared quiz.Prepared
	err      error
}

func (f fakeQuestions) Pick() (quiz.Prepared, error) { return f.prepared, f.err }

type fixture struct {
	deps   HandlerDeps
	client *telegramtest.Client
	bot    *bot.Bot
	store  database.Store
	model  *fakeModel
}

func testQuestion() quiz.Prepared {
	q := quiz.Question{
		Sentence: "나는 ___ 을(를) 좋아해요.",
		Correct:  "바다",
		Wrong:    []string{"사과", "학교", "책"},
		Original: "나는 바다를 좋아해요.",
	}
	// Identity shuffle: the correct word stays at index 0.
	return quiz.Shuffle(q, func(int, func(i, j int)) {})
}

func newFixture(t *testing.T, dailyLimit int) *fixture {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, discard)

	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			AdminUserID: adminID,
			InviteURL:   "https://t.me/KoreanLangBot",
			ChannelURL:  "https://t.me/channel",
			Projects:    config.DefaultProjects,
		},
		RateLimit: config.RateLimitConfig{DailyRequests: dailyLimit, MaxInputLength: 200},
		Messages:  config.DefaultMessages,
		Buttons:   config.DefaultButtons,
		Prompts:   config.DefaultPrompts,
	}

	model := &fakeModel{reply: "**고쳤어요**"}
	client := telegramtest.NewClient()
	limiter := ratelimit.New(ratelimit.NewMemoryCounter(), dailyLimit, ratelimit.Messages{
		Remaining: cfg.Messages.QuotaRemaining,
		Exhausted: cfg.Messages.QuotaExhausted,
	})

	return &fixture{
		client: client,
		bot:    telegramtest.NewBot(t, client),
		store:  store,
		model:  model,
		deps: HandlerDeps{
			Logger:        discard,
			Config:        cfg,
			Store:         store,
			LLM:           model,
			Limiter:       limiter,
			Engine:        quiz.NewEngine(store, 24*time.Hour, time.UTC, discard),
			Questions:     fakeQuestions{prepared: testQuestion()},
			Conversations: conversation.NewStore(time.Hour, nil),
			Policy:        sanitize.NewTelegramPolicy(),
			IntN:          func(int) int { return 0 },
		},
	}
}

func (f *fixture) texts() []string {
	var out []string
	for _, r := range f.client.ByMethod("sendMessage") {
		out = append(out, r.Text())
	}
	return out
}
