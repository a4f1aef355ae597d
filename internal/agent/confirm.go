package agent

import (
	"strings"
	"unicode"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type Decision int

const (
	DecisionNone Decision = iota
	DecisionConfirm
	DecisionReject
)

var affirmatives = []string{
	"yes", "y", "yep", "yeah", "yup", "sure", "ok", "okay", "confirm", "confirmed",
	"approve", "approved", "go ahead", "do it", "send it", "send", "book it", "sounds good",
}

var negatives = []string{
	"no", "n", "nope", "nah", "cancel", "reject", "don't", "dont", "do not", "stop", "abort",
}

var fillers = map[string]bool{
	"please": true, "thanks": true, "thank": true, "you": true, "mate": true, "it": true,
}

// ParseDecision recognises a bare confirmation or rejection, optionally
// followed by an action reference ("yes 3K9ZQ"). Anything longer is left to
// the model.
func ParseDecision(text string) (Decision, string) {
	normalised := strings.ToLower(strings.TrimSpace(text))
	normalised = strings.TrimFunc(normalised, func(r rune) bool {
		return unicode.IsPunct(r) && r != '\''
	})
	if normalised == "" {
		return DecisionNone, ""
	}

	for _, candidate := range []struct {
		phrases  []string
		decision Decision
	}{
		{affirmatives, DecisionConfirm},
		{negatives, DecisionReject},
	} {
		for _, phrase := range candidate.phrases {
			rest, ok := cutPhrase(normalised, phrase)
			if !ok {
				continue
			}
			if ref, ok := trailingRef(rest); ok {
				return candidate.decision, ref
			}
		}
	}
	return DecisionNone, ""
}

func cutPhrase(text, phrase string) (string, bool) {
	if text == phrase {
		return "", true
	}
	if strings.HasPrefix(text, phrase) {
		rest := text[len(phrase):]
		if r := rest[0]; r == ' ' || r == ',' || r == '!' || r == '.' {
			return rest, true
		}
	}
	return "", false
}

// trailingRef accepts only filler words plus at most one short reference.
func trailingRef(rest string) (string, bool) {
	words := strings.FieldsFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '!' || r == '.'
	})
	ref := ""
	for _, w := range words {
		switch {
		case fillers[w]:
		case ref == "" && isRef(w):
			ref = strings.ToUpper(w)
		default:
			return "", false
		}
	}
	return ref, true
}

// isRef matches the five-character form produced by id.Short.
func isRef(w string) bool {
	if len(w) != 5 {
		return false
	}
	for _, r := range w {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// pickAction resolves which open action a decision refers to: the one whose
// reference matches, or the only one open.
func pickAction(open []model.PendingAction, ref string) *model.PendingAction {
	if ref != "" {
		for i := range open {
			if id.MatchesShort(open[i].ID, ref) {
				return &open[i]
			}
		}
		return nil
	}
	if len(open) == 1 {
		return &open[0]
	}
	return nil
}
