package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/broadcast"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/content"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/sanitize"
	"github.com/edgard/lingvobot/internal/telegram/telegramtest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeCards struct {
	card *content.Card
	err  error
}

func (f fakeCards) Prepare(context.Context) (*content.Card, error) { return f.card, f.err }

type fakeQuestions struct{ prepared quiz.Prepared }

func (f fakeQuestions) Pick() (quiz.Prepared, error) { return f.prepared, nil }

type fixture struct {
	deps   TaskDeps
	client *telegramtest.Client
	store  database.Store
}

func newFixture(t *testing.T, users ...int64) *fixture {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, discard)

	ctx := context.Background()
	for _, id := range users {
		_, err := store.AddUser(ctx, id)
		require.NoError(t, err)
	}

	client := telegramtest.NewClient()
	cfg := &config.Config{Messages: config.DefaultMessages}
	q := quiz.Question{
		Sentence: "나는 ___ 을(를) 좋아해요.",
		Correct:  "바다",
		Wrong:    []string{"사과", "학교", "책"},
		Original: "나는 바다 을(를) 좋아해요.",
	}
	noShuffle := func(int, func(i, j int)) {}

	return &fixture{
		client: client,
		store:  store,
		deps: TaskDeps{
			Logger:        discard,
			Config:        cfg,
			Store:         store,
			Bot:           telegramtest.NewBot(t, client),
			Broadcaster:   broadcast.New(1, time.Second, discard),
			WordOfDay:     fakeCards{card: &content.Card{Word: "바다", Translation: "море", Example: "바다가 <파랗다>."}},
			Questions:     fakeQuestions{prepared: quiz.Shuffle(q, noShuffle)},
			Engine:        quiz.NewEngine(store, 24*time.Hour, time.UTC, discard),
			Conversations: conversation.NewStore(time.Minute, nil),
			Policy:        sanitize.NewTelegramPolicy(),
		},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	got := RegisterAllTasks(f.deps)
	for name := range config.DefaultTasks {
		assert.Contains(t, got, name)
	}
}

func TestWordOfDayContinuesPastBlockedUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1, 2, 3)
	f.client.Block(2)

	require.NoError(t, newWordOfDayTask(f.deps)(context.Background()))

	sent := f.client.ByMethod("sendMessage")
	require.Len(t, sent, 3, "every subscriber gets one attempt")
	assert.Equal(t, []int64{1, 2, 3}, []int64{sent[0].ChatID(), sent[1].ChatID(), sent[2].ChatID()})
	assert.Contains(t, sent[2].Text(), "바다")
	assert.Contains(t, sent[2].Text(), "&lt;파랗다&gt;", "example is escaped")
	assert.Contains(t, sent[2].Fields["parse_mode"], "HTML")
}

func TestWordOfDaySendsPhoto(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)
	f.deps.WordOfDay = fakeCards{card: &content.Card{
		Word: "바다", Translation: "море", Example: "바다가 넓어요.",
		Photo: []byte("png bytes"), PhotoName: "word.png",
	}}

	require.NoError(t, newWordOfDayTask(f.deps)(context.Background()))

	photos := f.client.ByMethod("sendPhoto")
	require.Len(t, photos, 1)
	assert.Equal(t, "word.png", photos[0].Files["photo"])
	assert.Contains(t, photos[0].Fields["caption"], "море")
	assert.Empty(t, f.client.ByMethod("sendMessage"))
}

func TestWordOfDaySkipsWithoutSubscribers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.deps.WordOfDay = fakeCards{err: errors.New("must not be called")}

	require.NoError(t, newWordOfDayTask(f.deps)(context.Background()))
	assert.Empty(t, f.client.Requests())
}

func TestWordOfDayPrepareFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1)
	f.deps.WordOfDay = fakeCards{err: content.ErrNoWords}

	err := newWordOfDayTask(f.deps)(context.Background())
	require.ErrorIs(t, err, content.ErrNoWords)
	assert.Empty(t, f.client.Requests())
}

func TestDailyQuizWithdrawsUndelivered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 1, 2, 3)
	f.client.Block(2)

	require.NoError(t, newDailyQuizTask(f.deps)(ctx))

	sent := f.client.ByMethod("sendMessage")
	require.Len(t, sent, 3)
	assert.Contains(t, sent[0].Text(), "___")
	assert.Contains(t, sent[0].Fields["reply_markup"], quiz.CallbackPrefix)

	for _, id := range []int64{1, 3} {
		active, err := f.store.GetActiveQuiz(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, active, "user %d keeps the delivered quiz", id)
		assert.Equal(t, "바다", active.CorrectWord)
	}

	blocked, err := f.store.GetActiveQuiz(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, blocked, "undelivered quiz is withdrawn")
}

type failingQuizStore struct {
	database.Store
	saves int
}

func (s *failingQuizStore) SaveActiveQuiz(context.Context, *database.ActiveQuiz) error {
	s.saves++
	return errors.New("disk I/O error")
}

func TestDailyQuizAbortsOnStoreFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 1, 2, 3)
	failing := &failingQuizStore{Store: f.store}
	f.deps.Engine = quiz.NewEngine(failing, 24*time.Hour, time.UTC, discard)

	err := newDailyQuizTask(f.deps)(context.Background())
	require.ErrorIs(t, err, broadcast.ErrAbort)
	assert.Equal(t, 1, failing.saves, "remaining subscribers are not attempted")
	assert.Empty(t, f.client.ByMethod("sendMessage"))
}

func TestDailyQuizTokensAreDistinct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 1, 2)

	require.NoError(t, newDailyQuizTask(f.deps)(ctx))

	first, err := f.store.GetActiveQuiz(ctx, 1)
	require.NoError(t, err)
	second, err := f.store.GetActiveQuiz(ctx, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	sent := f.client.ByMethod("sendMessage")
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Fields["reply_markup"], first.Token)
	assert.Contains(t, sent[1].Fields["reply_markup"], second.Token)
}

func TestQuizSweepRemovesStaleState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 1, 2)

	stale := &database.ActiveQuiz{
		UserID: 1, Token: quiz.NewToken(), Question: "q ___", Options: database.StringList{"a", "b"},
		CorrectIndex: 0, CorrectWord: "a", CreatedAt: time.Now().Add(-48 * time.Hour).Unix(),
	}
	fresh := &database.ActiveQuiz{
		UserID: 2, Token: quiz.NewToken(), Question: "q ___", Options: database.StringList{"a", "b"},
		CorrectIndex: 1, CorrectWord: "b", CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, f.store.SaveActiveQuiz(ctx, stale))
	require.NoError(t, f.store.SaveActiveQuiz(ctx, fresh))

	require.NoError(t, newQuizSweepTask(f.deps)(ctx))

	got, err := f.store.GetActiveQuiz(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = f.store.GetActiveQuiz(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSQLMaintenance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	assert.NoError(t, newSQLMaintenanceTask(f.deps)(context.Background()))
}
