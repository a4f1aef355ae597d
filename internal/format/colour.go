package format

import (
	"hash/fnv"
	"strings"
)

// Colour is a palette token the dashboard maps to its theme.
type Colour string

const (
	ColourGreen  Colour = "green"
	ColourAmber  Colour = "amber"
	ColourRed    Colour = "red"
	ColourBlue   Colour = "blue"
	ColourPurple Colour = "purple"
	ColourTeal   Colour = "teal"
	ColourPink   Colour = "pink"
	ColourGrey   Colour = "grey"
)

// Swatch is the pair of utility classes the dashboard renders for a badge.
type Swatch struct {
	Colour     Colour `json:"colour"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

func (c Colour) Swatch() Swatch {
	return Swatch{
		Colour:     c,
		Text:       "text-" + string(c) + "-700",
		Background: "bg-" + string(c) + "-100",
	}
}

var statusColours = map[string]Colour{
	// relationships
	"healthy": ColourGreen,
	"cooling": ColourAmber,
	"cold":    ColourRed,
	"unknown": ColourGrey,

	// projects
	"active":    ColourGreen,
	"planning":  ColourBlue,
	"on_hold":   ColourAmber,
	"completed": ColourPurple,
	"archived":  ColourGrey,

	// pending actions
	"pending":   ColourAmber,
	"confirmed": ColourBlue,
	"executing": ColourBlue,
	"succeeded": ColourGreen,
	"failed":    ColourRed,
	"rejected":  ColourGrey,
	"expired":   ColourGrey,

	// invoices (Xero statuses)
	"authorised": ColourBlue,
	"paid":       ColourGreen,
	"overdue":    ColourRed,
	"draft":      ColourGrey,
	"voided":     ColourGrey,

	// reminders
	"scheduled": ColourBlue,
	"sending":   ColourBlue,
	"sent":      ColourGreen,
	"cancelled": ColourGrey,
}

// StatusColour maps any status used across the dashboard to a colour.
// Unrecognised statuses are grey.
func StatusColour(status string) Colour {
	key := strings.ToLower(strings.TrimSpace(status))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if c, ok := statusColours[key]; ok {
		return c
	}
	return ColourGrey
}

var categoryPalette = []Colour{
	ColourBlue, ColourTeal, ColourPurple, ColourPink, ColourAmber, ColourGreen,
}

// CategoryColour assigns a stable colour to a free-form label such as a spend
// category or contact tag.
func CategoryColour(label string) Colour {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ColourGrey
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	return categoryPalette[h.Sum32()%uint32(len(categoryPalette))]
}

// DueColour colours a due date by days remaining: overdue red, within three
// days amber, otherwise green.
func DueColour(daysUntil int) Colour {
	switch {
	case daysUntil < 0:
		return ColourRed
	case daysUntil <= 3:
		return ColourAmber
	default:
		return ColourGreen
	}
}
