// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notebook-rewriter CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the notebook-rewriter CLI.
var rootCmd = &cobra.Command{
	Use:   "notebook-rewriter",
	Short: "Rewrite Jupyter notebooks from Drive mounts to Borealis data access",
	Long: `notebook-rewriter rewrites a tree of Jupyter notebooks in place. Code
cells that mount Google Drive get the mount lines replaced with a fixed
Borealis data-access block, and hard-coded Drive storage paths are
rewritten to local relative paths. Non-code cells are never touched.

The tool performs no network access itself; the inserted block is an
opaque constant.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
		return nil
	},
}

// setupLogging installs a tinted slog handler on stderr, with color only
// when stderr is a terminal.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notebook-rewriter.yaml or ~/.config/notebook-rewriter/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notebook-rewriter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notebook-rewriter"))
		}
	}

	viper.SetEnvPrefix("NOTEBOOK_REWRITER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
