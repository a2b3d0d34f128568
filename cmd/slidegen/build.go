package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidegen/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build <deck.yaml>",
	Short: "Convert a presentation document into Marp Markdown",
	Long: `Build parses the source document, resolves citations through the configured
lookup tool, merges auto-generated bibliographies, transforms every slide
through its template, and assembles the final Marp Markdown document.

Non-fatal degradations (unavailable resolver, unknown citation ids, unknown
icons) are reported as warnings on stderr; the build still succeeds. Fatal
failures are classified by stage: exit code 2 for parse, 3 for transform,
4 for render, 5 for initialization.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		construct := func() (*pipeline.Pipeline, error) {
			return pipeline.New(cfg)
		}
		if noResolve, _ := cmd.Flags().GetBool("no-resolve"); noResolve {
			// A nil resolver leaves every citation marker in place
			// without a lookup attempt.
			construct = func() (*pipeline.Pipeline, error) {
				return pipeline.NewWithResolver(cfg, nil)
			}
		}
		return runBuild(cmd, args[0], construct)
	},
}

func init() {
	addPipelineFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	buildCmd.Flags().Bool("no-resolve", false, "skip reference resolution; citation markers stay raw")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, path string, construct func() (*pipeline.Pipeline, error)) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	p, err := construct()
	if err != nil {
		return err
	}
	defer p.Close()

	result, err := p.Run(cmd.Context(), source)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Output)
	} else {
		if err := os.WriteFile(out, []byte(result.Output), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d slides, %d citations, %d warnings)\n",
			out, result.SlideCount, len(result.Citations), len(result.Warnings))
	}

	return nil
}
