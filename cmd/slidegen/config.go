package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidegen/pkg/types"
)

// loadConfig builds the pipeline configuration from the config file and
// environment (via viper), then applies any flags set on cmd on top.
func loadConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Templates: types.TemplatesConfig{
			Dir:       viper.GetString("templates.dir"),
			CustomDir: viper.GetString("templates.custom_dir"),
		},
		Resolver: types.ResolverConfig{
			Command:   viper.GetString("resolver.command"),
			Timeout:   viper.GetDuration("resolver.timeout"),
			CachePath: viper.GetString("resolver.cache_path"),
		},
		Icons: types.IconsConfig{
			CatalogPath: viper.GetString("icons.catalog_path"),
		},
		Render: types.RenderConfig{
			DefaultTheme:  viper.GetString("render.default_theme"),
			Paginate:      viper.GetBool("render.paginate"),
			MaxBibAuthors: viper.GetInt("render.max_bib_authors"),
		},
	}

	flags := cmd.Flags()
	if flags.Changed("templates") {
		cfg.Templates.Dir, _ = flags.GetString("templates")
	}
	if flags.Changed("custom-templates") {
		cfg.Templates.CustomDir, _ = flags.GetString("custom-templates")
	}
	if flags.Changed("resolver") {
		cfg.Resolver.Command, _ = flags.GetString("resolver")
	}
	if flags.Changed("resolver-timeout") {
		var d time.Duration
		d, _ = flags.GetDuration("resolver-timeout")
		cfg.Resolver.Timeout = d
	}
	if flags.Changed("cache") {
		cfg.Resolver.CachePath, _ = flags.GetString("cache")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Resolver.CachePath = ""
	}
	if flags.Changed("icons") {
		cfg.Icons.CatalogPath, _ = flags.GetString("icons")
	}
	if flags.Changed("theme") {
		cfg.Render.DefaultTheme, _ = flags.GetString("theme")
	}
	if flags.Changed("paginate") {
		cfg.Render.Paginate, _ = flags.GetBool("paginate")
	}

	return cfg
}

// addPipelineFlags registers the flags shared by commands that construct a
// pipeline.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("templates", "", "directory of template definitions loaded over the builtins")
	cmd.Flags().String("custom-templates", "", "overlay directory overriding templates by name")
	cmd.Flags().String("icons", "", "YAML icon catalog overlaid on the built-in set")
	cmd.Flags().String("resolver", "", "reference lookup command (default manubot)")
	cmd.Flags().Duration("resolver-timeout", 0, "timeout for the batched reference lookup")
	cmd.Flags().String("cache", "", "path of the SQLite reference cache")
	cmd.Flags().Bool("no-cache", false, "disable the reference cache")
	cmd.Flags().String("theme", "", "Marp theme used when the document declares none")
	cmd.Flags().Bool("paginate", false, "emit the paginate front matter key")
}
