// Package grade turns a normalized benchmark case plus its gold
// reference into a deterministic pass/fail verdict with sub-scores
// for correctness, reasoning quality, and query efficiency.
package grade

import (
	"encoding/json"
	"fmt"

	"github.com/fiwarelab/gavel/internal/policy"
)

// Usage carries optional token statistics collected alongside the
// trace.
type Usage struct {
	InputTokens     int `json:"input_tokens,omitempty"`
	OutputTokens    int `json:"output_tokens,omitempty"`
	TotalTokens     int `json:"total_tokens,omitempty"`
	ReasoningTokens int `json:"reasoning_tokens,omitempty"`
}

// Trace is the ordered record of query operations the agent issued
// while answering a case.
type Trace struct {
	CallCount int      `json:"call_count"`
	Queries   []string `json:"queries"`
	Usage     *Usage   `json:"usage,omitempty"`
}

// Gold is the reference solution. Every field is optional; absent
// fields are simply not checked.
type Gold struct {
	AnswerText *string  `json:"answer_text,omitempty"`
	AnswerJSON any      `json:"answer_json,omitempty"`
	Numeric    *float64 `json:"numeric,omitempty"`
	Reasoning  *string  `json:"reasoning,omitempty"`
	Queries    []string `json:"queries,omitempty"`
}

// Request is one benchmark case ready for grading. It is read-only:
// the engine never mutates it, so cases can be graded concurrently.
type Request struct {
	ID              string `json:"id,omitempty"`
	Model           string `json:"model,omitempty"`
	UserPrompt      string `json:"user_prompt"`
	ModelAnswerText string `json:"model_answer_text,omitempty"`
	ModelAnswerJSON any    `json:"model_answer_json,omitempty"`
	Trace           Trace  `json:"mcp_trace"`
	Gold            Gold   `json:"gold"`

	policy.Overrides
}

// ParseRequest decodes a single grading request from its JSON wire
// form (the agent-runner input contract).
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing grading request: %w", err)
	}
	return &req, nil
}
