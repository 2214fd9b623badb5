// Package imagegen fetches illustrations from a prompt-to-image HTTP API and
// trims the vendor watermark.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/resilience"
)

var (
	// ErrUndersized is returned when the API answers with too few bytes to be an image.
	ErrUndersized = errors.New("image response too small")
	// ErrBadStatus is returned for any non-200 answer.
	ErrBadStatus = errors.New("unexpected image API status")
)

// maxImageBytes caps how much of a response body is read.
const maxImageBytes = 20 << 20

// Generator produces image files from text prompts.
type Generator struct {
	client     *http.Client
	baseURL    string
	model      string
	cropHeight int
	minBytes   int
	dir        string
	breaker    *resilience.CircuitBreaker
	log        *slog.Logger
}

// New creates a Generator. A nil client gets one with cfg.Timeout.
func New(cfg config.ImagesConfig, client *http.Client, log *slog.Logger) *Generator {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := log.With("component", "imagegen")
	return &Generator{
		client:     client,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		cropHeight: cfg.CropHeight,
		minBytes:   cfg.MinBytes,
		dir:        cfg.Dir,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:        "image_api",
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.Timeout,
			OpenPeriod:  cfg.OpenPeriod,
			Logger:      logger,
		}),
		log: logger,
	}
}

// URL builds the request URL for prompt.
func (g *Generator) URL(prompt string) string {
	// Escape everything outside the unreserved set, spaces as %20.
	escaped := strings.ReplaceAll(url.QueryEscape(prompt), "+", "%20")
	u := strings.TrimRight(g.baseURL, "/") + "/" + escaped
	if g.model != "" {
		u += "?model=" + url.QueryEscape(g.model)
	}
	return u
}

// Fetch downloads the image for prompt and returns it with the watermark
// band cropped. A crop failure is logged and the original bytes returned.
func (g *Generator) Fetch(ctx context.Context, prompt string) ([]byte, string, error) {
	var data []byte
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		data, err = g.download(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	cropped, format, err := CropBottom(data, g.cropHeight)
	if err != nil {
		g.log.WarnContext(ctx, "Failed to crop image, keeping original", "error", err)
		return data, extensionFor(data), nil
	}
	return cropped, "." + format, nil
}

// Generate downloads the image for prompt into a temporary file and returns
// its path. The caller removes the file.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	data, ext, err := g.Fetch(ctx, prompt)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(g.dir, "word-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	g.log.InfoContext(ctx, "Image generated", "path", f.Name(), "bytes", len(data), "duration", time.Since(start))
	return f.Name(), nil
}

func (g *Generator) download(ctx context.Context, prompt string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	g.log.DebugContext(ctx, "Requesting image", "prompt_len", len(prompt))
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body[:min(len(body), 200)])
		return nil, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, snippet)
	}
	if len(body) < g.minBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrUndersized, len(body))
	}
	return body, nil
}

func extensionFor(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".img"
	}
}
