package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/lingvobot/internal/config"
)

const (
	geminiMaxRetries = 2
	geminiRetryDelay = 2 * time.Second
)

// GeminiClient streams completions from the Gemini API.
type GeminiClient struct {
	client        *genai.Client
	model         string
	contentConfig genai.GenerateContentConfig
	timeout       time.Duration
	retryDelay    time.Duration
	log           *slog.Logger
}

// NewGeminiClient creates a streaming Gemini client.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (*GeminiClient, error) {
	return newGeminiClient(ctx, cfg, genai.HTTPOptions{}, log)
}

func newGeminiClient(ctx context.Context, cfg config.LLMConfig, httpOpts genai.HTTPOptions, log *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	logger := log.With("component", "llm_gemini")
	logger.Info("Gemini client initialized successfully", "model", cfg.Model)
	return &GeminiClient{
		client: gi,
		model:  cfg.Model,
		contentConfig: genai.GenerateContentConfig{
			Temperature: &temperature,
		},
		timeout:    cfg.Timeout,
		retryDelay: geminiRetryDelay,
		log:        logger,
	}, nil
}

// Generate streams a completion and returns the concatenated text. Transient
// server errors are retried as long as nothing has been received yet.
func (c *GeminiClient) Generate(ctx context.Context, instruction, content string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := c.contentConfig
	cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
	contents := []*genai.Content{genai.NewContentFromText(content, genai.RoleUser)}

	var lastErr error
	for attempt := 0; attempt <= geminiMaxRetries; attempt++ {
		text, received, err := c.stream(ctx, contents, &cfg)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !retryable(err, received) || attempt == geminiMaxRetries {
			break
		}

		c.log.WarnContext(ctx, "Retrying Gemini stream after server error", "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return "", lastErr
}

// retryable reports whether a failed stream may be attempted again. Chunks
// already consumed would be duplicated by a retry.
func retryable(err error, received bool) bool {
	if received {
		return false
	}
	code, ok := apiErrorCode(err)
	return ok && (code == 500 || code == 503)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func (c *GeminiClient) stream(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, bool, error) {
	var b strings.Builder
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, cfg) {
		if err != nil {
			return "", b.Len() > 0, fmt.Errorf("gemini stream failed: %w", err)
		}
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
			return "", false, fmt.Errorf("gemini request blocked: %s", fb.BlockReason)
		}
		b.WriteString(resp.Text())
	}
	text, err := finish(&b)
	return text, false, err
}
