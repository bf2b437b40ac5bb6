package grade

import (
	"fmt"
	"strings"
)

// Penalty constants. Broad fetch-all queries are the dominant
// inefficiency signal; budget overruns and divergence from the
// expected query set matter less because alternate valid querying
// strategies exist.
const (
	broadQueryPenalty      = 0.4
	broadQueryExtraPenalty = 0.1
	budgetPenaltyPerUnit   = 0.2
	budgetPenaltyCap       = 0.4
	shapeMissPenalty       = 0.3
	excessiveUsagePenalty  = 0.1
	// excessiveTokensPerCall is the per-call token level past which
	// usage counts as clearly excessive for the task's complexity.
	excessiveTokensPerCall = 5000
)

// efficiencyOutcome carries the score plus the observations that feed
// query_analysis.notes and feedback.
type efficiencyOutcome struct {
	score        float64
	withinBudget bool
	broadQueries int
	overBudget   bool
	notes        []string
}

// scoreEfficiency starts from a neutral 1.0 and subtracts for broad
// unfiltered queries, budget overruns, and missing essential query
// shapes. A trace that diverges from gold's queries is reduced, not
// failed. With nothing to compare against the dimension stays
// neutral.
func scoreEfficiency(queries []string, callCount int, usage *Usage, budget *int, goldQueries []string) efficiencyOutcome {
	out := efficiencyOutcome{score: 1.0, withinBudget: true}

	for _, q := range queries {
		if isBroadQuery(q) {
			out.broadQueries++
		}
	}
	if out.broadQueries > 0 {
		out.score -= broadQueryPenalty + broadQueryExtraPenalty*float64(out.broadQueries-1)
		out.notes = append(out.notes, fmt.Sprintf("%d broad fetch-all quer%s issued where filtered queries were available", out.broadQueries, pluralY(out.broadQueries)))
	}

	if budget != nil {
		out.withinBudget = callCount <= *budget
		if !out.withinBudget {
			out.overBudget = true
			over := float64(callCount-*budget) / float64(max(*budget, 1))
			penalty := budgetPenaltyPerUnit * over
			if penalty > budgetPenaltyCap {
				penalty = budgetPenaltyCap
			}
			out.score -= penalty
			out.notes = append(out.notes, fmt.Sprintf("call count %d exceeds budget %d", callCount, *budget))
		}
	}

	if len(goldQueries) > 0 {
		missing := missingShapes(goldQueries, queries)
		if missing > 0 {
			frac := float64(missing) / float64(len(goldQueries))
			out.score -= shapeMissPenalty * frac
			out.notes = append(out.notes, fmt.Sprintf("%d of %d expected query shapes not matched", missing, len(goldQueries)))
		}
	}

	if usage != nil && usage.TotalTokens > excessiveTokensPerCall*(callCount+1) {
		out.score -= excessiveUsagePenalty
		out.notes = append(out.notes, fmt.Sprintf("token usage %d is excessive for %d calls", usage.TotalTokens, callCount))
	}

	out.score = clamp01(out.score)
	return out
}

// Filter parameters that make an entity query selective. A query
// carrying none of these (and not a pure count) fetches every entity
// of a type and filters client-side.
var selectiveParams = []string{"q", "id", "idpattern", "attrs", "georel", "count"}

// isBroadQuery reports whether a normalized query is an unfiltered
// fetch-all. Only entity listing endpoints can be broad; targeted
// paths (a single entity by id) never are.
func isBroadQuery(q string) bool {
	path, params, hasParams := strings.Cut(q, "?")
	if !strings.Contains(path, "/entities") || strings.Contains(path, "/entities/") {
		return false
	}
	if !hasParams {
		return true
	}
	for _, p := range strings.Split(params, "&") {
		key, val, _ := strings.Cut(p, "=")
		key = strings.ToLower(key)
		for _, s := range selectiveParams {
			if key == s {
				// count=false is not a selection
				if s == "count" && strings.EqualFold(val, "false") {
					continue
				}
				return false
			}
		}
	}
	return true
}

// missingShapes counts gold queries with no equivalently-shaped match
// in the used set. Result-size caps are excluded from the shape: a
// higher limit on an otherwise equivalently filtered query is a
// legitimate strategy, not inefficiency.
func missingShapes(goldQueries, used []string) int {
	usedShapes := make([]string, len(used))
	for i, q := range used {
		usedShapes[i] = queryShape(q)
	}
	taken := make([]bool, len(usedShapes))
	missing := 0
	for _, g := range goldQueries {
		shape := queryShape(g)
		found := false
		for i, u := range usedShapes {
			if !taken[i] && u == shape {
				taken[i] = true
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	return missing
}

// queryShape canonicalizes a query for equivalence comparison: the
// lowercased path plus its sorted parameters, with result-size caps
// (limit, offset) dropped entirely.
func queryShape(q string) string {
	path, params, hasParams := strings.Cut(q, "?")
	path = strings.ToLower(strings.TrimSpace(path))
	if !hasParams {
		return path
	}
	var kept []string
	for _, p := range strings.Split(params, "&") {
		key, _, _ := strings.Cut(p, "=")
		switch strings.ToLower(key) {
		case "limit", "offset", "":
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return path
	}
	// insertion sort keeps this dependency-free and stable for the
	// short parameter lists queries actually carry
	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && kept[j] < kept[j-1]; j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}
	return path + "?" + strings.Join(kept, "&")
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
