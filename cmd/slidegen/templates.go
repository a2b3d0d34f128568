package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/internal/pipeline"
	"github.com/pdiddy/slidegen/internal/template"
	"github.com/pdiddy/slidegen/pkg/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available slide templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(cmd)
		if err != nil {
			return err
		}
		for _, name := range registry.Names() {
			def, _ := registry.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, def.Category)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's schema and example content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(cmd)
		if err != nil {
			return err
		}
		def, ok := registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown template %q", args[0])
		}

		out, err := yaml.Marshal(struct {
			Name     string         `yaml:"name"`
			Category string         `yaml:"category,omitempty"`
			Schema   types.Schema   `yaml:"schema"`
			Example  map[string]any `yaml:"example,omitempty"`
		}{
			Name:     def.Name,
			Category: def.Category,
			Schema:   def.Schema,
			Example:  def.Example,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func newRegistry(cmd *cobra.Command) (*template.Registry, error) {
	cfg := loadConfig(cmd)
	registry, err := template.NewRegistry(cfg.Templates)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageInitialize, Err: err}
	}
	return registry, nil
}

func init() {
	templatesCmd.Flags().String("templates", "", "directory of template definitions loaded over the builtins")
	templatesCmd.Flags().String("custom-templates", "", "overlay directory overriding templates by name")
	templatesShowCmd.Flags().String("templates", "", "directory of template definitions loaded over the builtins")
	templatesShowCmd.Flags().String("custom-templates", "", "overlay directory overriding templates by name")

	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}
