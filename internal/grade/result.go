package grade

import (
	"encoding/json"
	"fmt"
)

// Scores are the three sub-scores plus their weighted combination,
// all in [0,1] (the weighted total assumes weights summing to 1.0).
type Scores struct {
	Correctness   float64 `json:"correctness"`
	Reasoning     float64 `json:"reasoning"`
	Efficiency    float64 `json:"efficiency"`
	WeightedTotal float64 `json:"weighted_total"`
}

// Gates echoes the hard correctness gate and whether it was cleared.
type Gates struct {
	CorrectnessPass bool    `json:"correctness_pass"`
	MinCorrectness  float64 `json:"min_correctness"`
}

// QueryAnalysis summarizes how the issued queries compare against
// budget and the expected query set.
type QueryAnalysis struct {
	CallCount       int      `json:"call_count"`
	UsedQueries     []string `json:"used_queries"`
	ExpectedQueries []string `json:"expected_queries"`
	WithinBudget    bool     `json:"within_budget"`
	Notes           string   `json:"notes"`
}

// NormalizedAnswer exposes the canonical answer views the comparison
// actually used. Absent views render as JSON null.
type NormalizedAnswer struct {
	Numeric *float64 `json:"numeric"`
	JSON    any      `json:"json"`
	Text    *string  `json:"text"`
}

// Result is the engine's full output contract: a single strict JSON
// object with exactly these keys, consumed byte-for-byte by
// downstream tooling. Immutable once produced.
type Result struct {
	Verdict          string           `json:"verdict"`
	Scores           Scores           `json:"scores"`
	Gates            Gates            `json:"gates"`
	QueryAnalysis    QueryAnalysis    `json:"query_analysis"`
	NormalizedAnswer NormalizedAnswer `json:"normalized_answer"`
	FeedbackShort    string           `json:"feedback_short"`
}

// Render serializes the result in its wire form: one JSON object,
// no surrounding prose, no markdown fencing.
func (r *Result) Render() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("rendering result: %w", err)
	}
	return data, nil
}
