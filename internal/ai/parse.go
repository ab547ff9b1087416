package ai

import (
	"regexp"
	"strings"
)

var (
	preamblePattern = regexp.MustCompile(`(?i)^\s*(reply|response|draft)\s*:\s*`)
	quotePairs      = [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}}
)

// CleanDraft normalizes model output into a reply body: it trims whitespace,
// drops a leading "Reply:" style label and one pair of wrapping quotes.
func CleanDraft(text string) (string, error) {
	s := strings.TrimSpace(text)
	s = preamblePattern.ReplaceAllString(s, "")
	for _, q := range quotePairs {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			s = strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
			break
		}
	}
	if s == "" {
		return "", ErrEmptyDraft
	}
	return s, nil
}
