package quiz

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// CallbackPrefix marks answer buttons.
	CallbackPrefix = "qz:"
	// MaxCallbackDataLen is Telegram's limit on callback data.
	MaxCallbackDataLen = 64

	tokenLen   = 32
	maxOptions = 10
)

// ErrMalformedPayload is returned for callback data that is not a quiz answer.
var ErrMalformedPayload = errors.New("malformed quiz payload")

// NewToken returns an opaque identifier for an active quiz.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BuildCallback encodes an answer button: the quiz token and the option
// position. Nothing about the correct answer is exposed.
func BuildCallback(token string, option int) string {
	return CallbackPrefix + token + ":" + strconv.Itoa(option)
}

// ParseCallback decodes data produced by BuildCallback.
func ParseCallback(data string) (string, int, error) {
	if len(data) > MaxCallbackDataLen || !strings.HasPrefix(data, CallbackPrefix) {
		return "", 0, ErrMalformedPayload
	}

	token, optionStr, ok := strings.Cut(strings.TrimPrefix(data, CallbackPrefix), ":")
	if !ok || !validToken(token) {
		return "", 0, ErrMalformedPayload
	}

	option, err := strconv.Atoi(optionStr)
	if err != nil || option < 0 || option >= maxOptions || strconv.Itoa(option) != optionStr {
		return "", 0, ErrMalformedPayload
	}
	return token, option, nil
}

func validToken(token string) bool {
	if len(token) != tokenLen {
		return false
	}
	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
