package grade

import "github.com/fiwarelab/gavel/internal/normalize"

// correctnessOutcome records which gold form scored best so feedback
// can name a concrete fix.
type correctnessOutcome struct {
	score float64
	// bestKind is the form that produced the score; empty when no
	// gold was supplied.
	bestKind string
	// numericAbsent is set when numeric gold was present but no
	// numeric value could be extracted from the answer.
	numericAbsent bool
}

// scoreCorrectness applies the gold union: each present form is an
// alternative acceptable representation, so the case takes the best
// score across forms. With no gold there is nothing to contradict and
// the dimension is neutral.
func scoreCorrectness(g Gold, ans normalize.Answer, opts compareOpts) correctnessOutcome {
	forms := goldForms(g, opts)
	if len(forms) == 0 {
		return correctnessOutcome{score: 1.0}
	}
	out := correctnessOutcome{score: -1}
	for _, f := range forms {
		s := f.score(ans)
		if s > out.score {
			out.score = s
			out.bestKind = f.kind()
		}
	}
	if g.Numeric != nil && ans.Numeric == nil {
		out.numericAbsent = true
	}
	return out
}
