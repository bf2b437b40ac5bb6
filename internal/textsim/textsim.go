// Package textsim scores semantic equivalence between two pieces of
// text on a [0,1] scale. The judgment is inherently fuzzy, so it sits
// behind a single Scorer interface: the grading engine stays
// deterministic with the default lexical scorer, and an LLM-backed
// scorer can be swapped in where reproducibility is not required.
package textsim

import (
	"regexp"
	"strings"
)

// Scorer rates how well candidate text matches reference text.
// 1.0 means equivalent meaning, 0.0 means contradiction or no
// relevant content.
type Scorer interface {
	Score(candidate, reference string) float64
}

// Lexical is the default deterministic scorer: recall of the
// reference's content tokens in the candidate, with a hard zero when
// the candidate asserts a conflicting number.
type Lexical struct{}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "there": true, "to": true,
	"was": true, "were": true, "with": true,
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+(?:\.[0-9]+)?`)

func tokens(s string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(s), -1)
	out := raw[:0]
	for _, t := range raw {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

func isNumber(t string) bool {
	for i := 0; i < len(t); i++ {
		if (t[i] < '0' || t[i] > '9') && t[i] != '.' {
			return false
		}
	}
	return len(t) > 0
}

// Score returns the fraction of reference content tokens present in
// the candidate. An empty candidate scores 0. A reference number the
// candidate replaces with a different number is a contradiction and
// scores 0.
func (Lexical) Score(candidate, reference string) float64 {
	ref := tokens(reference)
	if len(ref) == 0 {
		return 1.0
	}
	cand := tokens(candidate)
	if len(cand) == 0 {
		return 0.0
	}
	have := make(map[string]bool, len(cand))
	candHasNumber := false
	for _, t := range cand {
		have[t] = true
		if isNumber(t) {
			candHasNumber = true
		}
	}
	matched := 0
	for _, t := range ref {
		if have[t] {
			matched++
			continue
		}
		if isNumber(t) && candHasNumber {
			// a different number in place of the expected one
			return 0.0
		}
	}
	return float64(matched) / float64(len(ref))
}
