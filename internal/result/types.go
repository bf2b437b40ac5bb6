package result

import "github.com/fiwarelab/gavel/internal/grade"

// CaseMeta is the summary row stored next to each graded case,
// aggregated by the report command.
type CaseMeta struct {
	CaseID       string       `json:"case_id"`
	Model        string       `json:"model,omitempty"`
	Prompt       string       `json:"prompt"`
	Verdict      string       `json:"verdict"`
	Scores       grade.Scores `json:"scores"`
	CallCount    int          `json:"call_count"`
	TotalTokens  int          `json:"total_tokens,omitempty"`
	TotalCostUSD float64      `json:"total_cost_usd,omitempty"`
}
