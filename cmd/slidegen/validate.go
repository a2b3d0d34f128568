package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidegen/internal/document"
	"github.com/pdiddy/slidegen/internal/pipeline"
	"github.com/pdiddy/slidegen/internal/template"
)

var validateCmd = &cobra.Command{
	Use:   "validate <deck.yaml>",
	Short: "Check a presentation document without building it",
	Long: `Validate parses the source document and checks every slide's content against
its template's schema. No external resource is touched: citations are not
resolved and nothing is rendered. Diagnostics include the source line of the
offending slide.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		registry, err := template.NewRegistry(cfg.Templates)
		if err != nil {
			return &pipeline.StageError{Stage: pipeline.StageInitialize, Err: err}
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		pres, err := document.Parse(source)
		if err != nil {
			return &pipeline.StageError{Stage: pipeline.StageParse, Err: err}
		}

		if _, err := registry.ValidateSlides(pres); err != nil {
			return &pipeline.StageError{Stage: pipeline.StageTransform, Err: err}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d slides OK\n", args[0], len(pres.Slides))
		return nil
	},
}

func init() {
	validateCmd.Flags().String("templates", "", "directory of template definitions loaded over the builtins")
	validateCmd.Flags().String("custom-templates", "", "overlay directory overriding templates by name")

	rootCmd.AddCommand(validateCmd)
}
