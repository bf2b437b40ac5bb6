package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fiwarelab/gavel/internal/grade"
)

// ModelPricing holds per-1M-token prices in USD.
type ModelPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// Table maps model name to its token prices.
type Table struct {
	Models map[string]ModelPricing
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pricing file: %w", err)
	}
	var models map[string]ModelPricing
	if err := yaml.Unmarshal(data, &models); err != nil {
		return nil, fmt.Errorf("parsing pricing file: %w", err)
	}
	return &Table{Models: models}, nil
}

// Cost calculates the cost of a request. Unknown models cost zero.
func (t *Table) Cost(model string, inputTokens, outputTokens int) float64 {
	if t == nil || t.Models == nil {
		return 0
	}
	p, ok := t.Models[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1e6)*p.Input + (float64(outputTokens)/1e6)*p.Output
}

// CaseCost prices the token usage recorded in a case's trace.
func (t *Table) CaseCost(model string, usage *grade.Usage) float64 {
	if usage == nil {
		return 0
	}
	return t.Cost(model, usage.InputTokens, usage.OutputTokens)
}
