package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fiwarelab/gavel/internal/grade"
	"github.com/fiwarelab/gavel/internal/pricing"
	"github.com/fiwarelab/gavel/internal/report"
	"github.com/fiwarelab/gavel/internal/result"
	"github.com/fiwarelab/gavel/internal/runner"
)

var (
	flagCases    string
	flagCase     string
	flagModel    string
	flagParallel int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Grade a benchmark case file",
		RunE:  runBenchmark,
	}
	cmd.Flags().StringVar(&flagCases, "cases", "", "case file (.csv or .jsonl), overrides config")
	cmd.Flags().StringVar(&flagCase, "case", "", "filter to a single case id")
	cmd.Flags().StringVar(&flagModel, "model", "", "filter by model label")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "max concurrent grading workers")
	return cmd
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	casesPath := cfg.Cases
	if flagCases != "" {
		casesPath = flagCases
	}
	if casesPath == "" {
		return fmt.Errorf("no case file given: set cases in %s or pass --cases", cfgFile)
	}

	cases, err := runner.LoadCases(casesPath)
	if err != nil {
		return err
	}
	cases = filterCases(cases, flagCase, flagModel)
	if len(cases) == 0 {
		return fmt.Errorf("no cases matched the given filters")
	}

	engine, caveats := buildEngine(cfg)
	for _, c := range caveats {
		log.Printf("config policy: %s", c)
	}

	var table *pricing.Table
	if cfg.Pricing != "" {
		table, err = pricing.Load(cfg.Pricing)
		if err != nil {
			log.Printf("warning: %v, cost columns will be zero", err)
		}
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)
	fmt.Printf("Grading %d case(s)...\n", len(cases))

	errs := runner.GradeAll(&runner.Opts{
		Engine:   engine,
		RunDir:   runDir,
		Pricing:  table,
		Parallel: flagParallel,
	}, cases)
	for _, err := range errs {
		fmt.Printf("  ERROR: %v\n", err)
	}

	fmt.Println("\n--- Results ---")
	return report.Generate(runDir, "table", os.Stdout)
}

func filterCases(cases []*grade.Request, id, model string) []*grade.Request {
	if id == "" && model == "" {
		return cases
	}
	var filtered []*grade.Request
	for _, c := range cases {
		if id != "" && c.ID != id {
			continue
		}
		if model != "" && !strings.EqualFold(c.Model, model) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}
