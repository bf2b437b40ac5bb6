package grade

import (
	"math"
	"strings"

	"github.com/fiwarelab/gavel/internal/normalize"
	"github.com/fiwarelab/gavel/internal/textsim"
)

// goldForm is one acceptable representation of the reference answer.
// A case may carry several forms; they are alternative renderings of
// the same fact, so correctness takes the best score across them.
type goldForm interface {
	// kind names the variant for feedback messages.
	kind() string
	// score rates the normalized answer against this form in [0,1].
	score(ans normalize.Answer) float64
}

// goldForms builds the comparator list in priority order:
// numeric, structured, text. An empty list means no-gold, which
// scores a neutral 1.0.
func goldForms(g Gold, opts compareOpts) []goldForm {
	var forms []goldForm
	if g.Numeric != nil {
		forms = append(forms, numericGold{want: *g.Numeric, opts: opts})
	}
	if g.AnswerJSON != nil {
		forms = append(forms, jsonGold{want: g.AnswerJSON, opts: opts})
	}
	if g.AnswerText != nil && strings.TrimSpace(*g.AnswerText) != "" {
		forms = append(forms, textGold{want: *g.AnswerText, scorer: opts.text})
	}
	return forms
}

// compareOpts carries the policy knobs the comparators need.
type compareOpts struct {
	tolerance float64
	// gradedProximity linearly scales numeric credit as relative
	// error grows past the tolerance, instead of the strict binary
	// cut. Enabled only when rubric notes ask for it.
	gradedProximity bool
	// allowSuperset lets a structured answer carry fields beyond
	// gold's. Enabled only when rubric notes permit it.
	allowSuperset bool
	text          textsim.Scorer
}

// gradedWindow is how many multiples of the tolerance the linear
// partial-credit ramp spans when graded proximity is requested.
const gradedWindow = 5.0

type numericGold struct {
	want float64
	opts compareOpts
}

func (numericGold) kind() string { return "numeric" }

func (g numericGold) score(ans normalize.Answer) float64 {
	if ans.Numeric == nil {
		return 0.0
	}
	relErr := math.Abs(*ans.Numeric-g.want) / math.Max(math.Abs(g.want), 1e-9)
	if relErr <= g.opts.tolerance {
		return 1.0
	}
	if !g.opts.gradedProximity {
		return 0.0
	}
	limit := g.opts.tolerance * gradedWindow
	if relErr >= limit {
		return 0.0
	}
	return (limit - relErr) / (limit - g.opts.tolerance)
}

type jsonGold struct {
	want any
	opts compareOpts
}

func (jsonGold) kind() string { return "structured" }

// score is binary at the top level: a malformed or incomplete
// structured answer is not partially correct.
func (g jsonGold) score(ans normalize.Answer) float64 {
	if ans.JSON == nil {
		return 0.0
	}
	if jsonEquivalent(g.want, ans.JSON, g.opts) {
		return 1.0
	}
	return 0.0
}

// jsonEquivalent compares semantically: keys matched ignoring order,
// array entries matched as a multiset, numeric leaves with the same
// tolerance rule as numeric gold, other scalars exactly. When
// supersets are allowed the answer may carry extra object fields.
func jsonEquivalent(want, got any, opts compareOpts) bool {
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok {
			return false
		}
		if !opts.allowSuperset && len(g) != len(w) {
			return false
		}
		for k, wv := range w {
			gv, ok := g[k]
			if !ok || !jsonEquivalent(wv, gv, opts) {
				return false
			}
		}
		return true
	case []any:
		g, ok := got.([]any)
		if !ok || len(g) != len(w) {
			return false
		}
		used := make([]bool, len(g))
		for _, wv := range w {
			found := false
			for i, gv := range g {
				if !used[i] && jsonEquivalent(wv, gv, opts) {
					used[i] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case float64:
		g, ok := got.(float64)
		if !ok {
			return false
		}
		return math.Abs(g-w) <= opts.tolerance*math.Max(math.Abs(w), 1e-9)
	default:
		return want == got
	}
}

type textGold struct {
	want   string
	scorer textsim.Scorer
}

func (textGold) kind() string { return "text" }

// score is a graded semantic-equivalence judgment delegated to the
// pluggable text scorer, over whichever answer text exists.
func (g textGold) score(ans normalize.Answer) float64 {
	if ans.Text == nil {
		return 0.0
	}
	return g.scorer.Score(*ans.Text, g.want)
}
