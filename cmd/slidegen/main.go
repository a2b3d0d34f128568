// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the slidegen CLI.
// Implements: prd001-document through prd007-pipeline (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidegen/internal/pipeline"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the slidegen CLI.
var rootCmd = &cobra.Command{
	Use:   "slidegen",
	Short: "Generate Marp slide decks from structured YAML documents",
	Long: `slidegen converts a structured presentation document (YAML metadata plus an
ordered slide list, each slide bound to a named template) into Marp Markdown.
Along the way it expands icon references, resolves @-style citation markers
through an external lookup tool, and generates bibliographies on demand.

Each operation is a subcommand: build, validate, templates, and resolve.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./slidegen.yaml or ~/.config/slidegen/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("slidegen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "slidegen"))
		}
	}

	viper.SetEnvPrefix("SLIDEGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps a fatal error's stage tag onto the process exit code, so
// parse, transform, render, and initialization failures are
// distinguishable to scripts.
func exitCode(err error) int {
	switch pipeline.Classify(err) {
	case pipeline.StageParse:
		return 2
	case pipeline.StageTransform:
		return 3
	case pipeline.StageRender:
		return 4
	case pipeline.StageInitialize:
		return 5
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
