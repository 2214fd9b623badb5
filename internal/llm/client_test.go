package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/lingvobot/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClient struct {
	text string
	err  error
}

func (f fakeClient) Generate(context.Context, string, string) (string, error) {
	return f.text, f.err
}

func TestAskPlaceholders(t *testing.T) {
	t.Parallel()
	ph := Placeholders{Empty: "empty", Error: "failed: %v"}

	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{"text", fakeClient{text: "안녕하세요"}, "안녕하세요"},
		{"empty", fakeClient{err: ErrEmptyResponse}, "empty"},
		{"error", fakeClient{err: errors.New("boom")}, "failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Ask(context.Background(), tt.client, discard, "instr", "content", ph)
			assert.Equal(t, tt.want, got)
		})
	}
}

func sseServer(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range chunks {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", c)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAIClientConcatenatesStream(t *testing.T) {
	t.Parallel()
	srv := sseServer(t, []string{"안녕", "하세요", "!"})
	defer srv.Close()

	client, err := NewOpenAIClient(config.LLMConfig{
		APIKey:  "key",
		BaseURL: srv.URL + "/",
		Model:   "codestral-latest",
		Timeout: 5 * time.Second,
	}, discard)
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요!", got)
}

func TestOpenAIClientEmptyStream(t *testing.T) {
	t.Parallel()
	srv := sseServer(t, []string{"", "  "})
	defer srv.Close()

	client, err := NewOpenAIClient(config.LLMConfig{APIKey: "key", BaseURL: srv.URL, Model: "m"}, discard)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClientHTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(config.LLMConfig{APIKey: "key", BaseURL: srv.URL, Model: "m"}, discard)
	require.NoError(t, err)

	text := Ask(context.Background(), client, discard, "s", "u", Placeholders{Empty: "empty", Error: "failed: %v"})
	assert.True(t, strings.HasPrefix(text, "failed: "), text)
}

func TestNewClientUnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "nope", APIKey: "k"}, discard)
	assert.Error(t, err)
}
