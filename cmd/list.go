package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiwarelab/gavel/internal/runner"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases in the configured case file",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			fmt.Printf("Cases in %s:\n", casesPath)
			for _, c := range cases {
				label := c.Model
				if label == "" {
					label = "-"
				}
				fmt.Printf("  - %s [%s] %s\n", c.ID, label, truncate(c.UserPrompt, 70))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagCases, "cases", "", "case file (.csv or .jsonl), overrides config")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
