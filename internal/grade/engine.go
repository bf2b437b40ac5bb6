package grade

import (
	"strings"

	"github.com/fiwarelab/gavel/internal/normalize"
	"github.com/fiwarelab/gavel/internal/policy"
	"github.com/fiwarelab/gavel/internal/textsim"
)

// Engine grades benchmark cases. It is stateless across calls and
// performs no I/O, so one Engine can grade any number of cases
// concurrently; identical input always yields an identical result.
type Engine struct {
	base policy.Policy
	text textsim.Scorer
}

// NewEngine builds an engine grading against the default policy with
// the given text similarity scorer. A nil scorer selects the
// deterministic lexical default.
func NewEngine(text textsim.Scorer) *Engine {
	return NewEngineWith(policy.Defaults(), text)
}

// NewEngineWith grades against base, typically the config-level
// policy; per-case overrides still apply on top.
func NewEngineWith(base policy.Policy, text textsim.Scorer) *Engine {
	if text == nil {
		text = textsim.Lexical{}
	}
	return &Engine{base: base, text: text}
}

// Grade is the single transition from request to result. The request
// is never mutated; the result is freshly allocated per call.
func (e *Engine) Grade(req *Request) *Result {
	pol, caveats := policy.Merge(e.base, &req.Overrides)

	ans := normalize.Normalize(req.ModelAnswerText, req.ModelAnswerJSON)
	used := normalize.NormalizeQueries(req.Trace.Queries)
	expected := normalize.NormalizeQueries(req.Gold.Queries)

	opts := compareOpts{
		tolerance:       pol.NumericTolerance,
		gradedProximity: notesRequest(pol.Notes, "graded", "proximity", "partial credit"),
		allowSuperset:   notesRequest(pol.Notes, "superset"),
		text:            e.text,
	}

	callCount := req.Trace.CallCount
	if callCount == 0 {
		callCount = len(used)
	}

	correctness := scoreCorrectness(req.Gold, ans, opts)
	reasoning := scoreReasoning(req.Gold, used, req.ModelAnswerText, e.text)
	efficiency := scoreEfficiency(used, callCount, req.Trace.Usage, pol.EfficiencyBudget, expected)

	scores := Scores{
		Correctness: correctness.score,
		Reasoning:   reasoning,
		Efficiency:  efficiency.score,
	}
	scores.WeightedTotal = scores.Correctness*pol.Weights.Correctness +
		scores.Reasoning*pol.Weights.Reasoning +
		scores.Efficiency*pol.Weights.Efficiency

	gates := Gates{
		CorrectnessPass: scores.Correctness >= pol.MinCorrectness,
		MinCorrectness:  pol.MinCorrectness,
	}

	notes := append(caveats, efficiency.notes...)

	res := &Result{
		Verdict: verdict(pol.Mode, gates.CorrectnessPass, scores.WeightedTotal, pol.PassThreshold),
		Scores:  scores,
		Gates:   gates,
		QueryAnalysis: QueryAnalysis{
			CallCount:       callCount,
			UsedQueries:     used,
			ExpectedQueries: expected,
			WithinBudget:    efficiency.withinBudget,
			Notes:           strings.Join(notes, "; "),
		},
		NormalizedAnswer: NormalizedAnswer{
			Numeric: ans.Numeric,
			JSON:    ans.JSON,
			Text:    ans.Text,
		},
	}
	res.FeedbackShort = feedback(res, correctness, efficiency, pol.MinCorrectness)
	return res
}

// verdict applies the grading-mode table. Unknown modes were already
// folded to gated by policy.Merge, so the default arm is gated too.
func verdict(mode policy.Mode, correctnessPass bool, weightedTotal, threshold float64) string {
	pass := false
	switch mode {
	case policy.ModeHierarchical:
		pass = correctnessPass
	case policy.ModeWeighted:
		pass = weightedTotal >= threshold
	default:
		pass = correctnessPass && weightedTotal >= threshold
	}
	if pass {
		return "pass"
	}
	return "fail"
}

// notesRequest reports whether the free-text rubric notes ask for any
// of the given behaviors.
func notesRequest(notes string, hints ...string) bool {
	if notes == "" {
		return false
	}
	lower := strings.ToLower(notes)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
