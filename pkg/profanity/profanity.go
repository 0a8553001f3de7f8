// Package profanity provides the optional message classifier consumed
// by the aggregator. The classifier is a pure predicate; when no
// classifier is configured, profanity counters simply stay zero.
package profanity

import "strings"

// Classifier reports whether a message text is profane.
type Classifier func(text string) bool

// FromWords builds a token-match classifier from a word list. An empty
// list yields nil, which callers treat as "no classification".
func FromWords(words []string) Classifier {
	if len(words) == 0 {
		return nil
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}

	return func(text string) bool {
		for _, token := range strings.Fields(strings.ToLower(text)) {
			if set[strings.Trim(token, tokenPunct)] {
				return true
			}
		}
		return false
	}
}

// tokenPunct mirrors the aggregator's token cleanup so the same word
// matches whether it ends a sentence or not.
const tokenPunct = `,.:;!?()[]{}<>"'`
