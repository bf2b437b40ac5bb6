package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fiwarelab/gavel/internal/result"
)

// ModelSummary aggregates graded cases per model label.
type ModelSummary struct {
	Model           string  `json:"model"`
	Cases           int     `json:"cases"`
	PassRate        float64 `json:"pass_rate"`
	MeanCorrectness float64 `json:"mean_correctness"`
	MeanReasoning   float64 `json:"mean_reasoning"`
	MeanEfficiency  float64 `json:"mean_efficiency"`
	MeanTotal       float64 `json:"mean_total"`
	MeanTokens      float64 `json:"mean_tokens"`
	MeanCostUSD     float64 `json:"mean_cost_usd"`
}

// Generate reads stored case metas under runDir and writes a summary.
func Generate(runDir, format string, w io.Writer) error {
	metas, err := collectMetas(runDir)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		return fmt.Errorf("no graded cases found in %s", runDir)
	}

	summaries := aggregate(metas)

	switch format {
	case "markdown":
		return writeMarkdown(summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(summaries, w)
	}
}

func collectMetas(runDir string) ([]*result.CaseMeta, error) {
	var metas []*result.CaseMeta
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() == "meta.json" {
			meta, err := result.ReadCaseMeta(path)
			if err != nil {
				return nil
			}
			metas = append(metas, meta)
		}
		return nil
	})
	return metas, err
}

func aggregate(metas []*result.CaseMeta) []ModelSummary {
	type accum struct {
		count       int
		passed      int
		correctness float64
		reasoning   float64
		efficiency  float64
		total       float64
		tokens      float64
		cost        float64
	}
	byModel := map[string]*accum{}

	for _, m := range metas {
		model := m.Model
		if model == "" {
			model = "(unlabeled)"
		}
		a, ok := byModel[model]
		if !ok {
			a = &accum{}
			byModel[model] = a
		}
		a.count++
		a.correctness += m.Scores.Correctness
		a.reasoning += m.Scores.Reasoning
		a.efficiency += m.Scores.Efficiency
		a.total += m.Scores.WeightedTotal
		a.tokens += float64(m.TotalTokens)
		a.cost += m.TotalCostUSD
		if m.Verdict == "pass" {
			a.passed++
		}
	}

	var summaries []ModelSummary
	for model, a := range byModel {
		n := float64(a.count)
		summaries = append(summaries, ModelSummary{
			Model:           model,
			Cases:           a.count,
			PassRate:        float64(a.passed) / n,
			MeanCorrectness: a.correctness / n,
			MeanReasoning:   a.reasoning / n,
			MeanEfficiency:  a.efficiency / n,
			MeanTotal:       a.total / n,
			MeanTokens:      a.tokens / n,
			MeanCostUSD:     a.cost / n,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Model < summaries[j].Model
	})
	return summaries
}

func writeTable(summaries []ModelSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tCASES\tPASS RATE\tCORRECT\tREASON\tEFFIC\tTOTAL\tMEAN TOKENS\tMEAN COST")
	fmt.Fprintln(tw, strings.Repeat("-", 96))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.0f%%\t%.3f\t%.3f\t%.3f\t%.3f\t%.0f\t$%.4f\n",
			s.Model, s.Cases, s.PassRate*100, s.MeanCorrectness, s.MeanReasoning,
			s.MeanEfficiency, s.MeanTotal, s.MeanTokens, s.MeanCostUSD)
	}
	return tw.Flush()
}

func writeMarkdown(summaries []ModelSummary, w io.Writer) error {
	fmt.Fprintln(w, "| Model | Cases | Pass Rate | Correctness | Reasoning | Efficiency | Total | Mean Tokens | Mean Cost |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %.0f%% | %.3f | %.3f | %.3f | %.3f | %.0f | $%.4f |\n",
			s.Model, s.Cases, s.PassRate*100, s.MeanCorrectness, s.MeanReasoning,
			s.MeanEfficiency, s.MeanTotal, s.MeanTokens, s.MeanCostUSD)
	}
	return nil
}

func writeJSON(summaries []ModelSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
