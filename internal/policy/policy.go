package policy

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how the final verdict is derived from sub-scores.
type Mode string

const (
	ModeGated        Mode = "gated"
	ModeHierarchical Mode = "hierarchical"
	ModeWeighted     Mode = "weighted"
)

// Weights splits the composite score across the three grading
// dimensions. Callers are expected to make them sum to 1.0; a policy
// that does not is surfaced in the result notes, never renormalized.
type Weights struct {
	Correctness float64 `json:"correctness" yaml:"correctness"`
	Reasoning   float64 `json:"reasoning" yaml:"reasoning"`
	Efficiency  float64 `json:"efficiency" yaml:"efficiency"`
}

func (w Weights) Sum() float64 {
	return w.Correctness + w.Reasoning + w.Efficiency
}

// Policy carries every knob the grading engine consults. A Policy is
// immutable once built; Merge produces a new value.
type Policy struct {
	Weights          Weights `json:"weights" yaml:"weights"`
	PassThreshold    float64 `json:"pass_threshold" yaml:"pass_threshold"`
	Mode             Mode    `json:"grading_mode" yaml:"grading_mode"`
	MinCorrectness   float64 `json:"min_correctness" yaml:"min_correctness"`
	NumericTolerance float64 `json:"numeric_tolerance" yaml:"numeric_tolerance"`
	EfficiencyBudget *int    `json:"efficiency_budget,omitempty" yaml:"efficiency_budget,omitempty"`
	Notes            string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Defaults returns the baseline policy applied when a case supplies
// nothing: gated verdicts, a 0.70 pass bar, exact correctness gate,
// 1% numeric tolerance, correctness-dominant weights.
func Defaults() Policy {
	return Policy{
		Weights:          Weights{Correctness: 0.7, Reasoning: 0.2, Efficiency: 0.1},
		PassThreshold:    0.70,
		Mode:             ModeGated,
		MinCorrectness:   1.0,
		NumericTolerance: 0.01,
	}
}

// Overrides mirrors Policy with every field optional, for merging
// caller-supplied values over Defaults without ambiguity between
// "unset" and "zero".
type Overrides struct {
	Weights          *Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
	PassThreshold    *float64 `json:"pass_threshold,omitempty" yaml:"pass_threshold,omitempty"`
	Mode             *string  `json:"grading_mode,omitempty" yaml:"grading_mode,omitempty"`
	MinCorrectness   *float64 `json:"min_correctness,omitempty" yaml:"min_correctness,omitempty"`
	NumericTolerance *float64 `json:"numeric_tolerance,omitempty" yaml:"numeric_tolerance,omitempty"`
	EfficiencyBudget *int     `json:"efficiency_budget,omitempty" yaml:"efficiency_budget,omitempty"`
	Notes            *string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Merge lays o over base and returns the effective policy plus any
// caveats a grader should echo into its result notes. Caveats are
// advisory: a malformed policy still grades, failing closed.
func Merge(base Policy, o *Overrides) (Policy, []string) {
	p := base
	var caveats []string
	if o == nil {
		return p, nil
	}
	if o.Weights != nil {
		p.Weights = *o.Weights
	}
	if o.PassThreshold != nil {
		p.PassThreshold = *o.PassThreshold
	}
	if o.MinCorrectness != nil {
		p.MinCorrectness = *o.MinCorrectness
	}
	if o.NumericTolerance != nil {
		p.NumericTolerance = *o.NumericTolerance
	}
	if o.EfficiencyBudget != nil {
		p.EfficiencyBudget = o.EfficiencyBudget
	}
	if o.Notes != nil {
		p.Notes = *o.Notes
	}
	if o.Mode != nil {
		mode, ok := ParseMode(*o.Mode)
		if !ok {
			caveats = append(caveats, fmt.Sprintf("unknown grading_mode %q, falling back to gated", *o.Mode))
		}
		p.Mode = mode
	}
	if w := p.Weights; w.Correctness < 0 || w.Reasoning < 0 || w.Efficiency < 0 {
		caveats = append(caveats, "negative weight supplied, replacing weights with defaults")
		p.Weights = base.Weights
	} else if math.Abs(w.Sum()-1.0) > 1e-6 {
		caveats = append(caveats, fmt.Sprintf("weights sum to %.3f, not 1.0", w.Sum()))
	}
	return p, caveats
}

// ParseMode resolves a free-form mode string. Unrecognized values
// fail closed to gated and report ok=false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGated:
		return ModeGated, true
	case ModeHierarchical:
		return ModeHierarchical, true
	case ModeWeighted:
		return ModeWeighted, true
	case "":
		return ModeGated, true
	default:
		return ModeGated, false
	}
}
