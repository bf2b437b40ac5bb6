package policy_test

import (
	"strings"
	"testing"

	"github.com/fiwarelab/gavel/internal/policy"
)

func TestDefaults(t *testing.T) {
	p := policy.Defaults()
	if p.PassThreshold != 0.70 {
		t.Errorf("pass_threshold: got %f, want 0.70", p.PassThreshold)
	}
	if p.NumericTolerance != 0.01 {
		t.Errorf("numeric_tolerance: got %f, want 0.01", p.NumericTolerance)
	}
	if p.Mode != policy.ModeGated {
		t.Errorf("mode: got %q, want gated", p.Mode)
	}
	if p.MinCorrectness != 1.0 {
		t.Errorf("min_correctness: got %f, want 1.0", p.MinCorrectness)
	}
	if s := p.Weights.Sum(); s < 0.999 || s > 1.001 {
		t.Errorf("default weights sum to %f, want 1.0", s)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		want   policy.Mode
		wantOK bool
	}{
		{"gated", policy.ModeGated, true},
		{"GATED", policy.ModeGated, true},
		{" Hierarchical ", policy.ModeHierarchical, true},
		{"weighted", policy.ModeWeighted, true},
		{"", policy.ModeGated, true},
		{"strict", policy.ModeGated, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := policy.ParseMode(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseMode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMergeNil(t *testing.T) {
	p, caveats := policy.Merge(policy.Defaults(), nil)
	if p != policy.Defaults() {
		t.Errorf("nil overrides must leave defaults intact: %+v", p)
	}
	if len(caveats) != 0 {
		t.Errorf("unexpected caveats: %v", caveats)
	}
}

func TestMergeOverrides(t *testing.T) {
	threshold := 0.9
	mode := "weighted"
	budget := 3
	p, caveats := policy.Merge(policy.Defaults(), &policy.Overrides{
		PassThreshold:    &threshold,
		Mode:             &mode,
		EfficiencyBudget: &budget,
	})
	if len(caveats) != 0 {
		t.Fatalf("unexpected caveats: %v", caveats)
	}
	if p.PassThreshold != 0.9 {
		t.Errorf("pass_threshold: got %f", p.PassThreshold)
	}
	if p.Mode != policy.ModeWeighted {
		t.Errorf("mode: got %q", p.Mode)
	}
	if p.EfficiencyBudget == nil || *p.EfficiencyBudget != 3 {
		t.Errorf("efficiency_budget: got %v", p.EfficiencyBudget)
	}
	if p.NumericTolerance != 0.01 {
		t.Errorf("untouched field changed: %f", p.NumericTolerance)
	}
}

func TestMergeUnknownModeFailsClosed(t *testing.T) {
	mode := "lenient"
	p, caveats := policy.Merge(policy.Defaults(), &policy.Overrides{Mode: &mode})
	if p.Mode != policy.ModeGated {
		t.Errorf("mode: got %q, want gated", p.Mode)
	}
	if len(caveats) != 1 || !strings.Contains(caveats[0], "lenient") {
		t.Errorf("caveats: got %v", caveats)
	}
}

func TestMergeBadWeights(t *testing.T) {
	p, caveats := policy.Merge(policy.Defaults(), &policy.Overrides{
		Weights: &policy.Weights{Correctness: 0.5, Reasoning: 0.2, Efficiency: 0.2},
	})
	if len(caveats) != 1 || !strings.Contains(caveats[0], "weights sum") {
		t.Fatalf("caveats: got %v", caveats)
	}
	// surfaced, not silently fixed
	if p.Weights.Sum() > 0.95 {
		t.Errorf("weights were renormalized: %+v", p.Weights)
	}
}

func TestMergeNegativeWeightsReplaced(t *testing.T) {
	p, caveats := policy.Merge(policy.Defaults(), &policy.Overrides{
		Weights: &policy.Weights{Correctness: -0.5, Reasoning: 1.0, Efficiency: 0.5},
	})
	if len(caveats) == 0 {
		t.Fatal("expected a caveat for negative weights")
	}
	if p.Weights != policy.Defaults().Weights {
		t.Errorf("weights: got %+v, want defaults", p.Weights)
	}
}
