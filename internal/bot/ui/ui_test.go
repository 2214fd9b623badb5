package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/sanitize"
)

func TestReplyCallback(t *testing.T) {
	t.Parallel()

	data, err := BuildReplyCallback(12345)
	require.NoError(t, err)
	assert.Equal(t, "reply_12345", data)

	id, err := ParseReplyCallback(data)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)

	_, err = BuildReplyCallback(0)
	assert.Error(t, err)

	for _, bad := range []string{"reply_", "reply_abc", "reply_-4", "write_us", ""} {
		_, err := ParseReplyCallback(bad)
		assert.Error(t, err, bad)
	}
}

func TestToneCallback(t *testing.T) {
	t.Parallel()
	tones := Tones(config.DefaultButtons)

	data, err := BuildToneCallback(tones[1].Code)
	require.NoError(t, err)
	assert.Equal(t, "tone_해요체", data)

	got, err := ParseToneCallback(data, tones)
	require.NoError(t, err)
	assert.Equal(t, tones[1], got)

	_, err = ParseToneCallback("tone_unknown", tones)
	assert.Error(t, err)
	_, err = ParseToneCallback("unsubscribe_topik", tones)
	assert.Error(t, err)
}

func TestToneName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Дружеский", Tone{Label: "😊 Дружеский"}.Name())
	assert.Equal(t, "Plain", Tone{Label: "Plain"}.Name())
}

func TestQuizKeyboardLayout(t *testing.T) {
	t.Parallel()
	token := quiz.NewToken()

	kb := QuizKeyboard(token, []string{"a", "b", "c"})
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)

	last := kb.InlineKeyboard[1][0]
	assert.Equal(t, "c", last.Text)
	gotToken, option, err := quiz.ParseCallback(last.CallbackData)
	require.NoError(t, err)
	assert.Equal(t, token, gotToken)
	assert.Equal(t, 2, option)
}

func TestMainMenuUsesConfiguredLabels(t *testing.T) {
	t.Parallel()
	b := config.DefaultButtons

	menu := MainMenu(b)
	require.Len(t, menu.Keyboard, 3)
	assert.Equal(t, b.SpellCheck, menu.Keyboard[0][0].Text)
	assert.Equal(t, b.Feedback, menu.Keyboard[2][1].Text)
	assert.True(t, menu.ResizeKeyboard)
}

func TestLinksKeyboard(t *testing.T) {
	t.Parallel()
	kb := LinksKeyboard(config.DefaultProjects)
	require.Len(t, kb.InlineKeyboard, len(config.DefaultProjects))
	assert.Equal(t, config.DefaultProjects[0].URL, kb.InlineKeyboard[0][0].URL)
}

func TestRenderQuizEscapesQuestion(t *testing.T) {
	t.Parallel()
	q := &database.ActiveQuiz{
		Token:    quiz.NewToken(),
		Question: "<b>나는</b> ___ 좋아해요.",
		Options:  database.StringList{"사과", "학교"},
	}

	text, kb := RenderQuiz("Q: %s", sanitize.NewTelegramPolicy(), q)
	assert.NotContains(t, text, "<b>")
	assert.Contains(t, text, "___")
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Len(t, kb.InlineKeyboard[0], 2)
}
