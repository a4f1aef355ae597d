package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"
)

type rawMessage struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	Snippet  string   `json:"snippet"`
	LabelIDs []string `json:"labelIds"`
	Payload  part     `json:"payload"`
}

type part struct {
	MimeType string `json:"mimeType"`
	Headers  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"headers"`
	Body struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []part `json:"parts"`
}

func (p part) header(name string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func (m rawMessage) summary() MessageSummary {
	return MessageSummary{
		ID:       m.ID,
		ThreadID: m.ThreadID,
		Subject:  m.Payload.header("subject"),
		From:     m.Payload.header("from"),
		Date:     m.Payload.header("date"),
		Snippet:  m.Snippet,
	}
}

// extractBody returns the first part with the given MIME type, depth first.
func extractBody(p part, mimeType string) string {
	if p.MimeType == mimeType && p.Body.Data != "" {
		if text, err := decodeBase64URL(p.Body.Data); err == nil {
			return text
		}
	}
	for _, child := range p.Parts {
		if text := extractBody(child, mimeType); text != "" {
			return text
		}
	}
	return ""
}

func decodeBase64URL(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var (
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

func stripTags(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(text)
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}
