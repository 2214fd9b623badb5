// Package ui builds the keyboards and callback payloads shown by the bot.
package ui

import (
	"errors"
	"strconv"
	"strings"
)

// Fixed callback payloads.
const (
	CallbackUnsubscribe = "unsubscribe_topik"
	CallbackStay        = "stay_subscribed"
	CallbackResubscribe = "resubscribe_topik"
	CallbackWriteUs     = "write_us"
	CallbackTellFriend  = "tell_friend"
	CallbackOurProjects = "our_projects"

	TonePrefix  = "tone_"
	ReplyPrefix = "reply_"

	MaxCallbackDataLen = 64
)

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

// BuildReplyCallback encodes the admin "reply to user" action.
func BuildReplyCallback(userID int64) (string, error) {
	if userID <= 0 {
		return "", errInvalidValue
	}
	return validateCallbackData(ReplyPrefix + strconv.FormatInt(userID, 10))
}

// ParseReplyCallback extracts the user id from a reply payload.
func ParseReplyCallback(data string) (int64, error) {
	if len(data) > MaxCallbackDataLen {
		return 0, errCallbackDataTooLong
	}
	raw, ok := strings.CutPrefix(data, ReplyPrefix)
	if !ok {
		return 0, errInvalidPrefix
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidValue
	}
	return id, nil
}

// BuildToneCallback encodes a tone choice by its code.
func BuildToneCallback(code string) (string, error) {
	if code == "" {
		return "", errInvalidValue
	}
	return validateCallbackData(TonePrefix + code)
}

// ParseToneCallback resolves a tone payload against the known tones.
func ParseToneCallback(data string, tones []Tone) (Tone, error) {
	code, ok := strings.CutPrefix(data, TonePrefix)
	if !ok {
		return Tone{}, errInvalidPrefix
	}
	for _, t := range tones {
		if t.Code == code {
			return t, nil
		}
	}
	return Tone{}, errInvalidValue
}

func validateCallbackData(data string) (string, error) {
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}
