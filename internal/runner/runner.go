// Package runner grades collections of benchmark cases and persists
// the results. It owns no decision logic: normalization and scoring
// live in the grade package, and every case is an independent pure
// computation that the pool may evaluate in any order.
package runner

import (
	"fmt"

	"github.com/fiwarelab/gavel/internal/grade"
	"github.com/fiwarelab/gavel/internal/pricing"
	"github.com/fiwarelab/gavel/internal/result"
)

type Opts struct {
	Engine   *grade.Engine
	RunDir   string
	Pricing  *pricing.Table
	Parallel int
}

// GradeCase grades one case and writes its artifacts under the run
// directory. Returns the stored meta row.
func GradeCase(opts *Opts, req *grade.Request) (*result.CaseMeta, error) {
	res := opts.Engine.Grade(req)

	meta := &result.CaseMeta{
		CaseID:    req.ID,
		Model:     req.Model,
		Prompt:    req.UserPrompt,
		Verdict:   res.Verdict,
		Scores:    res.Scores,
		CallCount: res.QueryAnalysis.CallCount,
	}
	if req.Trace.Usage != nil {
		meta.TotalTokens = req.Trace.Usage.TotalTokens
		meta.TotalCostUSD = opts.Pricing.CaseCost(req.Model, req.Trace.Usage)
	}

	caseDir := result.CaseDir(opts.RunDir, req.ID)
	if err := result.WriteCase(caseDir, req, res, meta); err != nil {
		return nil, fmt.Errorf("storing case %s: %w", req.ID, err)
	}
	return meta, nil
}

// GradeAll grades every case, in parallel when opts.Parallel > 1.
// Returns the errors of the cases that failed to grade or store.
func GradeAll(opts *Opts, cases []*grade.Request) []error {
	perCase := RunPool(opts.Parallel, len(cases), func(i int) error {
		meta, err := GradeCase(opts, cases[i])
		if err != nil {
			return err
		}
		fmt.Printf("  %s: %s (total %.3f)\n", meta.CaseID, meta.Verdict, meta.Scores.WeightedTotal)
		return nil
	})
	var errs []error
	for _, err := range perCase {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
