// Package moderation censors blacklisted words in chat lines before they
// are routed to recipients.
package moderation

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter matches blacklisted words with an Aho-Corasick automaton built
// over a normalized alphabet, so punctuation tricks ("b.a.d") and case
// changes do not defeat the match.
type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// Verdict is the outcome of inspecting one chat line.
type Verdict struct {
	Clean   string   // the line with censored spans replaced
	Lang    string   // ISO 639-1 code of the detected language, "" if unknown
	Matched []string // normalized words that were censored
}

// NewFilter builds the automaton from the normalized word list.
func NewFilter(words []string, replacement rune) (*Filter, error) {
	patterns := make([][]rune, len(words))
	for i, w := range words {
		patterns[i] = normalize([]rune(w), nil)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: m, replacement: replacement}, nil
}

// Inspect detects the line's language and censors every blacklisted span,
// preserving the original spacing and punctuation around it.
func (f *Filter) Inspect(line string) Verdict {
	verdict := Verdict{Clean: line}
	if lang := whatlanggo.Detect(line).Lang.Iso6391(); lang != "" {
		verdict.Lang = lang
	}

	original := []rune(line)
	var origIdx []int
	normalized := normalize(original, &origIdx)
	if len(normalized) == 0 {
		return verdict
	}

	spans := f.machine.MultiPatternSearch(normalized, false)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Map the normalized span back onto the original runes.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			original[i] = f.replacement
		}
		verdict.Matched = append(verdict.Matched, string(span.Word))
	}
	if len(verdict.Matched) > 0 {
		verdict.Clean = string(original)
	}
	return verdict
}

// normalize lowercases the input and drops punctuation, spaces and symbols.
// When idx is non-nil it records, per kept rune, its position in the input.
func normalize(in []rune, idx *[]int) []rune {
	out := make([]rune, 0, len(in))
	for i, r := range in {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
		if idx != nil {
			*idx = append(*idx, i)
		}
	}
	return out
}
