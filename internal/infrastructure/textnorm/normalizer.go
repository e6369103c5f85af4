// Package textnorm cleans extracted resume text into the token stream the
// vectorizer was fit on.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	// "http" followed by a non-whitespace run. Case-insensitive so that
	// lowercasing later cannot resurrect a URL fragment.
	urlPattern       = regexp.MustCompile(`(?i)http\S+`)
	nonLetterPattern = regexp.MustCompile(`[^a-zA-Z]`)
)

type Normalizer struct {
	stopwords map[string]struct{}
}

// New returns a Normalizer using the built-in English stopword set.
func New() *Normalizer {
	return NewWithStopwords(EnglishStopwords())
}

func NewWithStopwords(words []string) *Normalizer {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Normalizer{stopwords: set}
}

func (n *Normalizer) Clean(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = nonLetterPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if n.IsStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func (n *Normalizer) IsStopword(word string) bool {
	_, ok := n.stopwords[word]
	return ok
}
