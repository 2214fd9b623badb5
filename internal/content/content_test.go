package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/sanitize"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCleanExample(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, in, want string
	}{
		{"plain", "나는 바다를 좋아해요.", "나는 바다를 좋아해요."},
		{"label", "Пример: 나는 바다를 좋아해요.", "나는 바다를 좋아해요."},
		{"bold label", "**예문:** 바다가 아름다워요.", "바다가 아름다워요."},
		{"parenthetical", "바다가 아름다워요. (Море красивое.)", "바다가 아름다워요."},
		{"fullwidth parenthetical", "바다가 아름다워요（Море красивое）", "바다가 아름다워요"},
		{"gloss tail", "바다에 가요 - Я иду на море", "바다에 가요"},
		{"first line only", "\n\"바다에 가요.\"\nПеревод: Я иду на море", "바다에 가요."},
		{"everything", "Example: «바다에 가요.» (I go to the sea) — море", "바다에 가요."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanExample(tt.in))
		})
	}
}

func TestCleanTranslation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "море", CleanTranslation("\"море.\"\n"))
	assert.Equal(t, "", CleanTranslation("  \n "))
}

func writeWords(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWords(t *testing.T) {
	t.Parallel()

	words, err := LoadWords(writeWords(t, `[{"word":" 바다 ","gloss":"sea/ocean"},{"word":""}]`))
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "바다", words[0].Word)
	assert.Equal(t, []string{"sea", "ocean"}, Senses(words[0].Gloss))

	_, err = LoadWords(writeWords(t, `[{"word":"  "}]`))
	assert.ErrorIs(t, err, ErrNoWords)

	_, err = LoadWords(writeWords(t, `{not json`))
	assert.Error(t, err)

	_, err = LoadWords(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

type scriptedModel struct {
	answers map[string]string
	errs    map[string]error
	calls   []string
}

func (m *scriptedModel) Generate(_ context.Context, instruction, content string) (string, error) {
	m.calls = append(m.calls, content)
	if err, ok := m.errs[instruction]; ok {
		return "", err
	}
	if answer, ok := m.answers[instruction+"|"+content]; ok {
		return answer, nil
	}
	return m.answers[instruction], nil
}

type fakeImages struct {
	dir    string
	err    error
	prompt string
}

func (f *fakeImages) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, "word-1.png")
	return path, os.WriteFile(path, []byte("png-bytes"), 0o600)
}

var testPrompts = config.PromptsConfig{
	Translate:   "translate",
	Example:     "example",
	ImagePrompt: "image",
}

var testMessages = config.MessagesConfig{
	ExampleFallback:     "no example",
	TranslationFallback: "no translation",
}

func TestPrepareFullPipeline(t *testing.T) {
	t.Parallel()
	model := &scriptedModel{answers: map[string]string{
		"translate|sea":   "море",
		"translate|ocean": "\"океан.\"",
		"example":         "예문: 바다가 넓어요. (Море широкое.)",
		"image":           "calm blue sea at dawn, no people",
	}}
	images := &fakeImages{dir: t.TempDir()}

	w := NewWordOfDay(writeWords(t, `[{"word":"바다","gloss":"sea / ocean"}]`), model, images, testPrompts, testMessages, discard)
	card, err := w.Prepare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "바다", card.Word)
	assert.Equal(t, "море / океан", card.Translation)
	assert.Equal(t, "바다가 넓어요.", card.Example)
	assert.Equal(t, "calm blue sea at dawn, no people", images.prompt)
	assert.Equal(t, []byte("png-bytes"), card.Photo)
	assert.Equal(t, "word-1.png", card.PhotoName)

	path := filepath.Join(images.dir, "word-1.png")
	_, err = os.Stat(path)
	require.NoError(t, err)

	card.Cleanup()
	card.Cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "image removed after cleanup")

	caption := card.Caption("%s|%s|%s", sanitize.NewTelegramPolicy())
	assert.Equal(t, "바다|море / океан|바다가 넓어요.", caption)
}

func TestPrepareDegradesOnFailures(t *testing.T) {
	t.Parallel()
	boom := errors.New("model down")
	model := &scriptedModel{errs: map[string]error{
		"translate": boom,
		"example":   boom,
		"image":     boom,
	}}
	images := &fakeImages{dir: t.TempDir(), err: errors.New("image api down")}

	w := NewWordOfDay(writeWords(t, `[{"word":"바다","gloss":"sea"}]`), model, images, testPrompts, testMessages, discard)
	card, err := w.Prepare(context.Background())
	require.NoError(t, err)
	defer card.Cleanup()

	assert.Equal(t, "sea", card.Translation, "source sense kept when translation fails")
	assert.Equal(t, "no example", card.Example)
	assert.Contains(t, images.prompt, "sea", "fallback image prompt used")
	assert.Nil(t, card.Photo, "text-only delivery")
}

func TestPrepareUsesStaticContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "sea.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpg"), 0o600))

	model := &scriptedModel{}
	body := `[{"word":"바다","translation":"море","example":"바다에 가요.","image":"` + filepath.ToSlash(imagePath) + `"}]`
	w := NewWordOfDay(writeWords(t, body), model, nil, testPrompts, testMessages, discard)

	card, err := w.Prepare(context.Background())
	require.NoError(t, err)
	card.Cleanup()

	assert.Empty(t, model.calls, "no model calls for complete entries")
	assert.Equal(t, "море", card.Translation)
	assert.Equal(t, []byte("jpg"), card.Photo)
	assert.Equal(t, "sea.jpg", card.PhotoName)

	_, err = os.Stat(imagePath)
	assert.NoError(t, err, "static images are never removed")
}

func TestPrepareMissingWordList(t *testing.T) {
	t.Parallel()
	w := NewWordOfDay(filepath.Join(t.TempDir(), "none.json"), &scriptedModel{}, nil, testPrompts, testMessages, discard)
	_, err := w.Prepare(context.Background())
	assert.Error(t, err)
}
