package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidegen/internal/resolve"
	"github.com/pdiddy/slidegen/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <id>...",
	Short: "Resolve citation ids and print CSL-YAML records",
	Long: `Resolve issues one batched lookup for the given citation ids (e.g.
doi:10.1000/xyz123, pmid:31978945) and prints the resolved records as
CSL-YAML. Useful for checking what the bibliography will contain before
building a deck.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		var resolver resolve.Resolver = resolve.NewManubot(cfg.Resolver)
		if cfg.Resolver.CachePath != "" {
			cache, err := resolve.NewCache(cfg.Resolver.CachePath, resolver)
			if err != nil {
				return err
			}
			defer cache.Close()
			resolver = cache
		}

		refs, err := resolver.Resolve(cmd.Context(), args)
		if errors.Is(err, resolve.ErrUnavailable) {
			return fmt.Errorf("reference resolver unavailable: %w", err)
		}
		if err != nil {
			return err
		}

		items := make([]types.ReferenceItem, 0, len(args))
		for _, id := range args {
			item, ok := refs[id]
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s could not be resolved\n", id)
				continue
			}
			items = append(items, item)
		}

		out, err := yaml.Marshal(items)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("resolver", "", "reference lookup command (default manubot)")
	resolveCmd.Flags().Duration("resolver-timeout", 0, "timeout for the batched reference lookup")
	resolveCmd.Flags().String("cache", "", "path of the SQLite reference cache")
	resolveCmd.Flags().Bool("no-cache", false, "disable the reference cache")

	rootCmd.AddCommand(resolveCmd)
}
