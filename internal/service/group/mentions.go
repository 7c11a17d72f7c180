package group

import (
	"regexp"
	"strings"

	"github.com/pitchlabs/pitchroom/internal/model/persona"
)

var spaceRun = regexp.MustCompile(`\s+`)

// ParseMentions scans the input for @FirstName tokens, case-insensitively
// and on token boundaries, against the roster. It returns the mentioned
// persona IDs in roster order plus the text with the mention tokens stripped
// (whitespace collapsed). Tokens that match no roster persona are left in
// the text and target nobody.
func ParseMentions(input string, roster []persona.Persona) ([]int, string) {
	var mentioned []int
	cleaned := input

	for _, p := range roster {
		first := p.FirstName()
		if first == "" {
			continue
		}
		pattern := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(first) + `\b`)
		if pattern.MatchString(input) {
			mentioned = append(mentioned, p.ID)
			cleaned = pattern.ReplaceAllString(cleaned, "")
		}
	}

	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
	return mentioned, cleaned
}
