package content

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/llm"
	"github.com/edgard/lingvobot/internal/sanitize"
)

// ImageSource produces an image file for a prompt. The caller removes it.
type ImageSource interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Card is one prepared word-of-day broadcast. Photo is nil when no image
// could be produced and the card goes out as text.
type Card struct {
	Word        string
	Translation string
	Example     string

	Photo     []byte
	PhotoName string

	cleanup func()
}

// Cleanup releases temporary files. Safe to call more than once.
func (c *Card) Cleanup() {
	if c != nil && c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

// Caption renders the card with an HTML template taking word, translation
// and example. Every part is escaped.
func (c *Card) Caption(template string, p *sanitize.Policy) string {
	return fmt.Sprintf(template, p.PlainText(c.Word), p.PlainText(c.Translation), p.PlainText(c.Example))
}

// WordOfDay prepares cards: it picks a word, translates its gloss, asks for
// an example sentence and an image prompt, and renders the image. A failed
// step falls back instead of aborting the card.
type WordOfDay struct {
	wordsPath string
	model     llm.Client
	images    ImageSource
	prompts   config.PromptsConfig
	messages  config.MessagesConfig
	intN      func(int) int
	log       *slog.Logger
}

// NewWordOfDay creates a card generator. images may be nil to disable photos.
func NewWordOfDay(wordsPath string, model llm.Client, images ImageSource, prompts config.PromptsConfig, messages config.MessagesConfig, log *slog.Logger) *WordOfDay {
	return &WordOfDay{
		wordsPath: wordsPath,
		model:     model,
		images:    images,
		prompts:   prompts,
		messages:  messages,
		intN:      rand.IntN,
		log:       log.With("component", "word_of_day"),
	}
}

// Prepare builds today's card. Only an unreadable word list is an error.
func (w *WordOfDay) Prepare(ctx context.Context) (*Card, error) {
	words, err := LoadWords(w.wordsPath)
	if err != nil {
		return nil, err
	}
	word := words[w.intN(len(words))]
	log := w.log.With("word", word.Word)

	card := &Card{
		Word:        word.Word,
		Translation: w.translation(ctx, log, word),
		Example:     w.example(ctx, log, word),
	}

	if word.Image != "" {
		data, err := os.ReadFile(word.Image)
		if err == nil {
			card.Photo, card.PhotoName = data, filepath.Base(word.Image)
			return card, nil
		}
		log.WarnContext(ctx, "Static word image unreadable", "path", word.Image, "error", err)
	}

	if w.images != nil {
		w.attachGeneratedImage(ctx, log, card, word)
	}
	return card, nil
}

func (w *WordOfDay) translation(ctx context.Context, log *slog.Logger, word Word) string {
	if word.Translation != "" {
		return word.Translation
	}

	senses := Senses(word.Gloss)
	if len(senses) == 0 {
		return w.messages.TranslationFallback
	}

	out := make([]string, 0, len(senses))
	for _, sense := range senses {
		text, err := w.model.Generate(ctx, w.prompts.Translate, sense)
		if err != nil {
			log.WarnContext(ctx, "Translation failed, keeping source sense", "sense", sense, "error", err)
			out = append(out, sense)
			continue
		}
		if t := CleanTranslation(text); t != "" {
			out = append(out, t)
		} else {
			out = append(out, sense)
		}
	}
	return strings.Join(out, " / ")
}

func (w *WordOfDay) example(ctx context.Context, log *slog.Logger, word Word) string {
	if word.Example != "" {
		return word.Example
	}

	text, err := w.model.Generate(ctx, w.prompts.Example, word.Word)
	if err != nil {
		log.WarnContext(ctx, "Example generation failed", "error", err)
		return w.messages.ExampleFallback
	}
	if ex := CleanExample(text); ex != "" {
		return ex
	}
	return w.messages.ExampleFallback
}

func (w *WordOfDay) imagePrompt(ctx context.Context, log *slog.Logger, word Word) string {
	meaning := word.Gloss
	if meaning == "" {
		meaning = word.Translation
	}
	fallback := fmt.Sprintf("A simple, calm illustration of %s, objects or nature only, no people, no text", meaning)

	text, err := w.model.Generate(ctx, w.prompts.ImagePrompt, fmt.Sprintf("%s (%s)", word.Word, meaning))
	if err != nil {
		log.WarnContext(ctx, "Image prompt generation failed, using fallback", "error", err)
		return fallback
	}
	if p := strings.TrimSpace(firstLine(text)); p != "" {
		return p
	}
	return fallback
}

func (w *WordOfDay) attachGeneratedImage(ctx context.Context, log *slog.Logger, card *Card, word Word) {
	prompt := w.imagePrompt(ctx, log, word)

	path, err := w.images.Generate(ctx, prompt)
	if err != nil {
		log.WarnContext(ctx, "Image generation failed, sending text only", "error", err)
		return
	}
	card.cleanup = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove word image", "path", path, "error", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WarnContext(ctx, "Generated image unreadable, sending text only", "path", path, "error", err)
		return
	}
	card.Photo, card.PhotoName = data, filepath.Base(path)
}
