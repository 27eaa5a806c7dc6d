// Package moderation masks configured words in message text before it is
// persisted. Matching is case-insensitive and ignores punctuation and
// whitespace inserted inside a word.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Censor struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewCensor builds the Aho-Corasick automaton over the normalized word list.
// An empty list yields a nil Censor, which censors nothing.
func NewCensor(words []string, replacement rune) (*Censor, error) {
	if len(words) == 0 {
		return nil, nil
	}
	patterns := make([][]rune, len(words))
	for i, w := range words {
		patterns[i] = normalize([]rune(w), nil)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, replacement: replacement}, nil
}

// Apply replaces every occurrence of a censored word with the replacement
// rune and returns the masked text plus the normalized words that matched.
// Spacing and untouched characters keep their original positions.
func (c *Censor) Apply(text string) (string, []string) {
	if c == nil {
		return text, nil
	}

	orig := []rune(text)
	var origIdx []int
	norm := normalize(orig, func(i int) { origIdx = append(origIdx, i) })
	if len(norm) == 0 {
		return text, nil
	}

	spans := c.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text, nil
	}

	var matched []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			orig[i] = c.replacement
		}
		matched = append(matched, string(span.Word))
	}
	return string(orig), matched
}

// normalize lowercases the input and drops punctuation, symbols and spaces.
// The optional keep callback receives the original index of every retained
// rune so matches can be mapped back onto the source text.
func normalize(in []rune, keep func(i int)) []rune {
	out := make([]rune, 0, len(in))
	for i, r := range in {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		if keep != nil {
			keep(i)
		}
	}
	return out
}
