package notion

import (
	"encoding/json"
	"strings"
	"time"
)

type richText struct {
	PlainText string `json:"plain_text"`
}

func joinRichText(parts []richText) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.PlainText)
	}
	return sb.String()
}

type apiPage struct {
	ID             string                     `json:"id"`
	URL            string                     `json:"url"`
	LastEditedTime time.Time                  `json:"last_edited_time"`
	Properties     map[string]json.RawMessage `json:"properties"`
}

// title finds the page's title property, whatever it is named.
func (p apiPage) title() string {
	for _, raw := range p.Properties {
		var prop struct {
			Type  string     `json:"type"`
			Title []richText `json:"title"`
		}
		if err := json.Unmarshal(raw, &prop); err != nil || prop.Type != "title" {
			continue
		}
		return joinRichText(prop.Title)
	}
	return ""
}

func (p apiPage) toPage() Page {
	title := p.title()
	if title == "" {
		title = "Untitled"
	}
	return Page{ID: p.ID, Title: title, URL: p.URL, LastEditedTime: p.LastEditedTime}
}

// apiBlock keeps the type-specific payload raw; every text block shares the
// rich_text shape.
type apiBlock struct {
	Type string
	Data map[string]json.RawMessage
}

func (b *apiBlock) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &b.Data); err != nil {
		return err
	}
	if raw, ok := b.Data["type"]; ok {
		return json.Unmarshal(raw, &b.Type)
	}
	return nil
}

var blockPrefix = map[string]string{
	"paragraph":          "",
	"heading_1":          "# ",
	"heading_2":          "## ",
	"heading_3":          "### ",
	"bulleted_list_item": "- ",
	"numbered_list_item": "1. ",
	"quote":              "> ",
	"callout":            "> ",
	"toggle":             "",
	"code":               "",
}

func (b apiBlock) plainText() (string, bool) {
	if b.Type == "divider" {
		return "---", true
	}

	raw, ok := b.Data[b.Type]
	if !ok {
		return "", false
	}
	var body struct {
		RichText []richText `json:"rich_text"`
		Checked  bool       `json:"checked"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	text := joinRichText(body.RichText)

	if b.Type == "to_do" {
		box := "[ ] "
		if body.Checked {
			box = "[x] "
		}
		return box + text, true
	}

	prefix, known := blockPrefix[b.Type]
	if !known {
		return "", false
	}
	return prefix + text, true
}
