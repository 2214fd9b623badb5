// Package llm talks to hosted language models. Every backend streams the
// completion and concatenates the chunks into one string.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edgard/lingvobot/internal/config"
)

// ErrEmptyResponse is returned when the model streamed no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Client generates text from a system instruction and user content.
type Client interface {
	Generate(ctx context.Context, instruction, content string) (string, error)
}

// Placeholders are the strings Ask returns instead of failing. Error is a
// fmt template receiving the error.
type Placeholders struct {
	Empty string
	Error string
}

// Ask calls the model and never fails: an empty response or an error is
// mapped to the matching placeholder.
func Ask(ctx context.Context, client Client, log *slog.Logger, instruction, content string, ph Placeholders) string {
	text, err := client.Generate(ctx, instruction, content)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		log.WarnContext(ctx, "Model returned empty response")
		return ph.Empty
	case err != nil:
		log.ErrorContext(ctx, "Model request failed", "error", err)
		return fmt.Sprintf(ph.Error, err)
	}
	return text
}

// NewClient builds the backend selected by cfg.Provider.
func NewClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (Client, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg, log)
	case "gemini":
		return NewGeminiClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func finish(b *strings.Builder) (string, error) {
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
