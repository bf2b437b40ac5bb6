package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiwarelab/gavel/internal/grade"
)

func newGradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade [request.json]",
		Short: "Grade a single case and print the result contract",
		Long:  "Read one grading request (from the file argument or stdin) and write the strict JSON result object to stdout, nothing else.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("reading request: %w", err)
			}

			req, err := grade.ParseRequest(data)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, caveats := buildEngine(cfg)
			for _, c := range caveats {
				log.Printf("config policy: %s", c)
			}

			out, err := engine.Grade(req).Render()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}
}
