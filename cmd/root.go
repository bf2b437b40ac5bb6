package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fiwarelab/gavel/internal/config"
	"github.com/fiwarelab/gavel/internal/grade"
	"github.com/fiwarelab/gavel/internal/policy"
	"github.com/fiwarelab/gavel/internal/textsim"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gavel",
		Short: "Benchmark grading engine for LLM query-planning agents",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "gavel.yaml", "config file path")
	root.AddCommand(newGradeCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newRegradeCmd())
	root.AddCommand(newListCmd())
	return root
}

// loadConfig reads the config file; a missing file is not an error,
// the defaults simply apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return &config.Config{Results: config.Results{Dir: "results"}}, nil
	}
	return config.Load(cfgFile)
}

// buildEngine wires the grading engine from config: the base policy
// merged over defaults, and the text scorer (lexical unless the LLM
// judge is enabled).
func buildEngine(cfg *config.Config) (*grade.Engine, []string) {
	base, caveats := policy.Merge(policy.Defaults(), &cfg.Policy)
	var scorer textsim.Scorer
	if cfg.Judge.Enabled {
		scorer = textsim.NewOpenAIScorer(os.Getenv(cfg.Judge.APIKeyEnv), cfg.Judge.BaseURL, cfg.Judge.Model)
	}
	return grade.NewEngineWith(base, scorer), caveats
}
