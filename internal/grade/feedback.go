package grade

import "fmt"

// feedback names the single most impactful fix as exactly one
// sentence. Correctness problems dominate, then the gate, then
// efficiency, then reasoning.
func feedback(res *Result, c correctnessOutcome, e efficiencyOutcome, minCorrectness float64) string {
	switch {
	case c.numericAbsent && res.Scores.Correctness < 1.0:
		return "State the final answer as an explicit numeric value so it can be verified against the reference."
	case res.Scores.Correctness == 0.0 && c.bestKind == "numeric":
		return "Correct the final numeric value; it falls outside the accepted tolerance of the reference."
	case res.Scores.Correctness == 0.0 && c.bestKind == "structured":
		return "Align the structured answer's fields and values with the expected result."
	case res.Scores.Correctness < 1.0 && c.bestKind == "text":
		return "Address the key facts of the reference answer directly instead of omitting or contradicting them."
	case res.Scores.Correctness < minCorrectness:
		return fmt.Sprintf("Raise answer correctness above the %.2f gate before anything else.", minCorrectness)
	case e.broadQueries > 0:
		return "Replace the unfiltered fetch-all query with a selective filtered query."
	case e.overBudget:
		return "Reduce the number of issued queries to fit within the call budget."
	case res.Scores.Efficiency < 1.0:
		return "Match the expected query shapes more closely to avoid redundant lookups."
	case res.Scores.Reasoning < 1.0:
		return "Ground every reasoning step in an actually issued query, in resolution order."
	default:
		return "No changes needed; the answer, reasoning, and query plan all meet the bar."
	}
}
