// Package telegramtest provides a recording HTTP client for exercising
// handlers and tasks against a real go-telegram Bot without the network.
package telegramtest

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Token is the bot token used by NewBot.
const Token = "test-token"

const blockedResponse = `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`

// Request is one recorded Bot API call with its decoded form fields.
type Request struct {
	Method string
	Fields map[string]string
	// Files maps upload field names to file names.
	Files map[string]string
}

// ChatID returns the chat_id field, or 0.
func (r Request) ChatID() int64 {
	id, _ := strconv.ParseInt(strings.Trim(r.Fields["chat_id"], `"`), 10, 64)
	return id
}

// Text returns the text field.
func (r Request) Text() string { return r.Fields["text"] }

// Client records requests and answers them like the Bot API would. Chats
// marked with Block answer every call with 403.
type Client struct {
	mu        sync.Mutex
	requests  []Request
	blocked   map[int64]bool
	messageID int
}

func NewClient() *Client {
	return &Client{blocked: make(map[int64]bool)}
}

// Block makes every call addressed to chatID fail.
func (c *Client) Block(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocked[chatID] = true
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}

	r := Request{
		Method: path.Base(req.URL.Path),
		Fields: make(map[string]string),
		Files:  make(map[string]string),
	}
	decodeMultipart(req.Header.Get("Content-Type"), body, &r)

	c.mu.Lock()
	c.requests = append(c.requests, r)
	blocked := c.blocked[r.ChatID()]
	c.messageID++
	id := c.messageID
	c.mu.Unlock()

	status, payload := http.StatusOK, c.result(r, id)
	if blocked {
		status, payload = http.StatusForbidden, blockedResponse
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Header:     make(http.Header),
	}, nil
}

func (c *Client) result(r Request, id int) string {
	switch r.Method {
	case "answerCallbackQuery", "deleteMessage", "setMyCommands":
		return `{"ok":true,"result":true}`
	default:
		return fmt.Sprintf(`{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"}}}`, id, r.ChatID())
	}
}

func decodeMultipart(contentType string, body []byte, r *Request) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return
	}
	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			return
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return
		}
		if part.FileName() != "" {
			r.Files[part.FormName()] = part.FileName()
			continue
		}
		r.Fields[part.FormName()] = string(data)
	}
}

// Requests returns a copy of everything recorded so far.
func (c *Client) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Request(nil), c.requests...)
}

// ByMethod returns the recorded calls of one Bot API method.
func (c *Client) ByMethod(method string) []Request {
	var out []Request
	for _, r := range c.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the most recent call, failing the test when there is none.
func (c *Client) Last(t testing.TB) Request {
	t.Helper()
	reqs := c.Requests()
	if len(reqs) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	return reqs[len(reqs)-1]
}

// NewBot returns a Bot that talks to c and skips getMe.
func NewBot(t testing.TB, c *Client) *bot.Bot {
	t.Helper()
	b, err := bot.New(Token,
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(time.Second, c),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

// MessageUpdate is a private-chat text message from userID.
func MessageUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			From: &models.User{ID: userID, FirstName: "Test", LastName: "User"},
			Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
			Text: text,
		},
	}
}

// CallbackUpdate is a button press by userID on message messageID in chatID.
func CallbackUpdate(data string, userID, chatID int64, messageID int, messageText string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "callback-1",
			From: models.User{ID: userID, FirstName: "Test"},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID:   messageID,
					Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
					Text: messageText,
				},
			},
		},
	}
}
