package grade

import (
	"strings"

	"github.com/fiwarelab/gavel/internal/textsim"
)

// stepSupportThreshold is the minimum lexical overlap for an expected
// reasoning step to count as grounded in a trace query or the answer.
const stepSupportThreshold = 0.3

// scoreReasoning compares the step sequence implied by the trace and
// answer against the expected high-level steps from gold. Full credit
// for a sound, aligned pipeline; partial credit when the shape is
// right but a non-critical step is missing or a harmless extra lookup
// was added; low credit for steps with no grounding in the trace.
//
// Only evaluated when gold supplies expected reasoning; otherwise the
// dimension is neutral.
func scoreReasoning(g Gold, queries []string, answerText string, scorer textsim.Scorer) float64 {
	if g.Reasoning == nil || strings.TrimSpace(*g.Reasoning) == "" {
		return 1.0
	}
	steps := splitSteps(*g.Reasoning)
	if len(steps) == 0 {
		return 1.0
	}

	// Ground each expected step in the best-matching trace entry, or
	// failing that in the answer text itself.
	covered := 0
	matchedIdx := make([]int, 0, len(steps))
	queryUsed := make([]bool, len(queries))
	for _, step := range steps {
		best, bestIdx := 0.0, -1
		for i, q := range queries {
			if s := scorer.Score(queryText(q), step); s > best {
				best, bestIdx = s, i
			}
		}
		if best >= stepSupportThreshold {
			covered++
			matchedIdx = append(matchedIdx, bestIdx)
			queryUsed[bestIdx] = true
			continue
		}
		if scorer.Score(answerText, step) >= stepSupportThreshold {
			covered++
		}
	}

	score := float64(covered) / float64(len(steps))

	// Essential resolution order: step matches must land on queries in
	// non-decreasing trace order, or the pipeline shape is wrong.
	for i := 1; i < len(matchedIdx); i++ {
		if matchedIdx[i] < matchedIdx[i-1] {
			score *= 0.75
			break
		}
	}

	// Harmless extra lookups cost a little, not a lot.
	extras := 0
	for i := range queries {
		if !queryUsed[i] {
			extras++
		}
	}
	if extras > 0 && covered > 0 {
		penalty := 0.05 * float64(extras)
		if penalty > 0.15 {
			penalty = 0.15
		}
		score -= penalty
	}

	return clamp01(score)
}

// splitSteps breaks expected reasoning text into individual steps:
// one per line, falling back to sentence and semicolon boundaries.
func splitSteps(reasoning string) []string {
	var steps []string
	for _, line := range strings.Split(reasoning, "\n") {
		for _, part := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ';' || r == '.'
		}) {
			part = strings.TrimSpace(strings.TrimLeft(part, "-*0123456789) "))
			if part != "" {
				steps = append(steps, part)
			}
		}
	}
	return steps
}

// queryText flattens a query string into comparable prose: separators
// become spaces so lexical overlap with step descriptions works.
func queryText(q string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '?', '&', '=', ',', '%', '"':
			return ' '
		}
		return r
	}, q)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
