package brief

import (
	"regexp"
	"strings"
)

const (
	maxTitleKeywords = 5
	maxDescKeywords  = 5
	maxKeywords      = 8
)

// Generic meeting words that carry no search signal.
var stopWords = map[string]struct{}{
	"meeting":    {},
	"call":       {},
	"sync":       {},
	"standup":    {},
	"review":     {},
	"discussion": {},
	"update":     {},
	"the":        {},
	"and":        {},
	"for":        {},
	"with":       {},
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
)

// ExtractKeywords derives a short space-joined keyword string from a meeting
// title and optional HTML or plain description, used to drive the context
// searches. Order-preserving and deterministic: up to 5 title terms (longer
// than 3 chars, stop words dropped), then up to 5 description terms (longer
// than 4 chars, tags stripped), capped at 8 total.
func ExtractKeywords(title, description string) string {
	var keywords []string

	for _, w := range strings.Fields(nonAlnumRe.ReplaceAllString(title, " ")) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(w)]; stop {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == maxTitleKeywords {
			break
		}
	}

	if description != "" {
		clean := htmlTagRe.ReplaceAllString(description, " ")
		descCount := 0
		for _, w := range strings.Fields(nonAlnumRe.ReplaceAllString(clean, " ")) {
			if len(w) <= 4 {
				continue
			}
			keywords = append(keywords, w)
			descCount++
			if descCount == maxDescKeywords {
				break
			}
		}
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return strings.Join(keywords, " ")
}
