package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fiwarelab/gavel/internal/policy"
	"github.com/fiwarelab/gavel/internal/result"
)

func newRegradeCmd() *cobra.Command {
	var (
		flagThreshold      float64
		flagMinCorrectness float64
		flagMode           string
	)
	cmd := &cobra.Command{
		Use:   "regrade [run-dir]",
		Short: "Re-grade stored results under a different policy",
		Long:  "Walk a run directory and re-grade each case's stored request.json, updating result.json and meta.json in place. Policy flags override the stored per-case policy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runDir := args[0]
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, caveats := buildEngine(cfg)
			for _, c := range caveats {
				log.Printf("config policy: %s", c)
			}

			var reqFiles []string
			err = filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil
				}
				if info.Name() == "request.json" {
					reqFiles = append(reqFiles, path)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("walking run dir: %w", err)
			}
			if len(reqFiles) == 0 {
				return fmt.Errorf("no stored requests found in %s", runDir)
			}

			for _, reqPath := range reqFiles {
				caseDir := filepath.Dir(reqPath)
				req, err := result.ReadRequest(reqPath)
				if err != nil {
					log.Printf("skipping %s: %v", reqPath, err)
					continue
				}

				if cmd.Flags().Changed("pass-threshold") {
					req.PassThreshold = &flagThreshold
				}
				if cmd.Flags().Changed("min-correctness") {
					req.MinCorrectness = &flagMinCorrectness
				}
				if cmd.Flags().Changed("mode") {
					if _, ok := policy.ParseMode(flagMode); !ok {
						return fmt.Errorf("unknown grading mode %q", flagMode)
					}
					req.Mode = &flagMode
				}

				metaPath := filepath.Join(caseDir, "meta.json")
				meta, err := result.ReadCaseMeta(metaPath)
				if err != nil {
					log.Printf("skipping %s: %v", metaPath, err)
					continue
				}

				res := engine.Grade(req)
				oldVerdict, oldTotal := meta.Verdict, meta.Scores.WeightedTotal
				meta.Verdict = res.Verdict
				meta.Scores = res.Scores

				if err := result.WriteCase(caseDir, req, res, meta); err != nil {
					log.Printf("  failed to write %s: %v", caseDir, err)
					continue
				}
				fmt.Printf("%s: %s (%.3f) -> %s (%.3f)\n",
					meta.CaseID, oldVerdict, oldTotal, meta.Verdict, meta.Scores.WeightedTotal)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&flagThreshold, "pass-threshold", 0.70, "override pass threshold")
	cmd.Flags().Float64Var(&flagMinCorrectness, "min-correctness", 1.0, "override correctness gate")
	cmd.Flags().StringVar(&flagMode, "mode", "gated", "override grading mode (gated, hierarchical, weighted)")
	return cmd
}
