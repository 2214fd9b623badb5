package imagegen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testConfig(baseURL, dir string) config.ImagesConfig {
	return config.ImagesConfig{
		Enabled:     true,
		BaseURL:     baseURL,
		Model:       "flux",
		CropHeight:  60,
		MinBytes:    100,
		Timeout:     5 * time.Second,
		Dir:         dir,
		MaxFailures: 3,
		OpenPeriod:  time.Minute,
	}
}

func TestURLEscapesPrompt(t *testing.T) {
	t.Parallel()
	g := New(testConfig("https://image.pollinations.ai/prompt/", ""), nil, discard)

	got := g.URL("a red apple/tree & sky")
	assert.Equal(t, "https://image.pollinations.ai/prompt/a%20red%20apple%2Ftree%20%26%20sky?model=flux", got)
}

func TestGenerateCropsWatermark(t *testing.T) {
	t.Parallel()
	payload := pngBytes(t, 100, 200)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, "flux", r.URL.Query().Get("model"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	g := New(testConfig(srv.URL+"/prompt/", dir), srv.Client(), discard)

	path, err := g.Generate(context.Background(), "sea at dawn")
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Equal(t, "/prompt/sea%20at%20dawn", gotPath)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".png"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 140, cfg.Height)
}

func TestGenerateFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   []byte
		want   error
	}{
		{"bad status", http.StatusBadGateway, bytes.Repeat([]byte("x"), 500), ErrBadStatus},
		{"undersized", http.StatusOK, []byte("tiny"), ErrUndersized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			}))
			defer srv.Close()

			dir := t.TempDir()
			g := New(testConfig(srv.URL, dir), srv.Client(), discard)
			_, err := g.Generate(context.Background(), "prompt")
			assert.ErrorIs(t, err, tt.want)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no file left behind")
		})
	}
}

func TestFetchKeepsUndecodableImage(t *testing.T) {
	t.Parallel()
	body := bytes.Repeat([]byte("not an image "), 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	g := New(testConfig(srv.URL, t.TempDir()), srv.Client(), discard)
	data, ext, err := g.Fetch(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, ".img", ext)
}

func TestCropBottomSmallImageUnchanged(t *testing.T) {
	t.Parallel()
	data := pngBytes(t, 10, 50)
	out, format, err := CropBottom(data, 60)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, data, out)
}
