package agent

import (
	"regexp"
	"unicode/utf8"
)

type Tier string

const (
	TierCheap     Tier = "cheap"
	TierExpensive Tier = "expensive"
)

// longMessageRunes sends long messages to the expensive tier regardless of
// keywords.
const longMessageRunes = 600

var expensivePattern = regexp.MustCompile(`(?i)\b(` +
	`analy[sz]\w*|strateg\w*|compare|comparison|forecast\w*|draft\w*|write|rewrite|` +
	`plan|planning|summari[sz]\w*|explain why|why did|report|review|proposal|` +
	`budget\w*|quarter\w*|trend\w*|recommend\w*|prioriti[sz]\w*|grant application|` +
	`board paper|reconcil\w*` +
	`)\b`)

// SelectTier picks the model tier for a user message.
func SelectTier(text string) Tier {
	if utf8.RuneCountInString(text) > longMessageRunes {
		return TierExpensive
	}
	if expensivePattern.MatchString(text) {
		return TierExpensive
	}
	return TierCheap
}
