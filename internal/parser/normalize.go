package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == '$' {
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("dollars ")
			lastSpace = true
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' || r == ',' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// parseRankToken accepts "3", "r3" and "rank3".
func parseRankToken(token string) (int, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	token = strings.TrimPrefix(strings.TrimPrefix(token, "rank"), "r")
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n, true
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "there", "this":
		return true
	default:
		return false
	}
}

func mapCurrency(token string) string {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "dollars", "dollar", "cash", "money", "bucks":
		return "dollars"
	case "credits", "credit", "cr", "fame":
		return "credits"
	default:
		return ""
	}
}

func isFiller(token string) bool {
	switch token {
	case "to", "the", "a", "an", "as", "role", "of", "into", "for", "with", "using", "in", "at":
		return true
	default:
		return false
	}
}

func trimFillers(tokens []string) []string {
	for len(tokens) > 0 && isFiller(tokens[0]) {
		tokens = tokens[1:]
	}
	return tokens
}
