package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	CallbackConfirm = "confirm"
	CallbackReject  = "reject"
)

// ParseUpdate decodes a webhook body.
func ParseUpdate(body []byte) (*Update, error) {
	var u Update
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decoding update: %w", err)
	}
	if u.Message == nil && u.CallbackQuery == nil {
		return nil, fmt.Errorf("update %d has no message or callback", u.UpdateID)
	}
	return &u, nil
}

// ChatID returns the chat the update belongs to as a string.
func (u *Update) ChatID() string {
	switch {
	case u.Message != nil:
		return strconv.FormatInt(u.Message.Chat.ID, 10)
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return strconv.FormatInt(u.CallbackQuery.Message.Chat.ID, 10)
	}
	return ""
}

// SenderName is the best display name for whoever sent the update.
func (u *Update) SenderName() string {
	var from *User
	switch {
	case u.Message != nil:
		from = u.Message.From
	case u.CallbackQuery != nil:
		from = &u.CallbackQuery.From
	}
	if from == nil {
		return ""
	}
	if from.FirstName != "" {
		return from.FirstName
	}
	return from.Username
}

// ConfirmKeyboard builds the Confirm / Reject buttons for a pending action.
func ConfirmKeyboard(actionID int64) [][]Button {
	id := strconv.FormatInt(actionID, 10)
	return [][]Button{{
		{Text: "Confirm", CallbackData: CallbackConfirm + ":" + id},
		{Text: "Reject", CallbackData: CallbackReject + ":" + id},
	}}
}

// ParseCallbackData splits "confirm:123" into its verb and action ID.
func ParseCallbackData(data string) (string, int64, error) {
	verb, rawID, ok := strings.Cut(data, ":")
	if !ok || (verb != CallbackConfirm && verb != CallbackReject) {
		return "", 0, fmt.Errorf("unknown callback %q", data)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad action id in callback %q", data)
	}
	return verb, id, nil
}

// SplitMessage breaks text into chunks of at most limit bytes, preferring
// newline boundaries and never splitting a UTF-8 sequence.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
