// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uraprojects/notebook-rewriter/internal/batch"
	"github.com/uraprojects/notebook-rewriter/internal/ledger"
	"github.com/uraprojects/notebook-rewriter/internal/rewrite"
	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Rewrite every notebook under a directory in place",
	Long: `Convert walks the given directory (or --root), rewrites every .ipynb
file it finds, and prints a summary: counts, converted paths, and an
error message for each file that failed. Files are modified in place
with no backup; a failing file never stops the rest of the batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	bcfg := batchConfig(cmd, args)
	rcfg, err := rewriteConfig(cmd)
	if err != nil {
		return err
	}

	slog.Debug("starting batch conversion", "root", bcfg.RootDir)
	started := time.Now()

	result, err := batch.ConvertAll(bcfg, rcfg, os.Stdout)
	if err != nil {
		return err
	}

	result.WriteSummary(os.Stdout)

	if useLedger, _ := cmd.Flags().GetBool("ledger"); useLedger {
		if err := recordRun(cmd, bcfg.RootDir, started, result); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d notebook(s) failed conversion", len(result.Failures))
	}
	return nil
}

func recordRun(cmd *cobra.Command, rootDir string, started time.Time, result batch.Result) error {
	store, err := ledger.NewStore(ledgerConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	files := make([]ledger.RunFile, 0, result.Total())
	for _, p := range result.Converted {
		files = append(files, ledger.RunFile{Path: p, Status: ledger.StatusConverted})
	}
	for _, f := range result.Failures {
		files = append(files, ledger.RunFile{Path: f.Path, Status: ledger.StatusFailed, Message: f.Message})
	}

	runID, err := store.RecordRun(context.Background(), rootDir, started, files)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	slog.Debug("run recorded", "id", runID)
	return nil
}

// batchConfig resolves the batch settings from the positional argument,
// flags, and the config file, in that priority order.
func batchConfig(cmd *cobra.Command, args []string) types.BatchConfig {
	root, _ := cmd.Flags().GetString("root")
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = viper.GetString("batch.root_dir")
	}
	if root == "" {
		root = "."
	}

	ext, _ := cmd.Flags().GetString("extension")
	if ext == "" {
		ext = viper.GetString("batch.extension")
	}
	if ext == "" {
		ext = types.DefaultExtension
	}

	return types.BatchConfig{RootDir: root, Extension: ext}
}

// rewriteConfig builds the rewrite rules: stock Borealis defaults, with
// the replacement block optionally overridden from a file. The mapping
// table's ordering contract is always checked before use.
func rewriteConfig(cmd *cobra.Command) (types.RewriteConfig, error) {
	cfg := types.DefaultRewriteConfig()

	if path, _ := cmd.Flags().GetString("replacement-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading replacement block: %w", err)
		}
		cfg.ReplacementBlock = string(data)
	}

	if err := rewrite.CheckMappingOrder(cfg.Mappings); err != nil {
		return cfg, fmt.Errorf("invalid mapping table: %w", err)
	}
	return cfg, nil
}

func ledgerConfig(cmd *cobra.Command) types.LedgerConfig {
	dir, _ := cmd.Flags().GetString("ledger-dir")
	if dir == "" {
		dir = viper.GetString("ledger.ledger_dir")
	}
	if dir == "" {
		dir = ".notebook-rewriter"
	}
	return types.LedgerConfig{LedgerDir: dir}
}

func init() {
	convertCmd.Flags().String("root", "", "directory tree to convert (default: current directory)")
	convertCmd.Flags().String("extension", "", "notebook file extension (default: .ipynb)")
	convertCmd.Flags().String("replacement-file", "", "file holding a custom replacement block")
	convertCmd.Flags().Bool("ledger", false, "record this run in the audit ledger")
	convertCmd.Flags().String("ledger-dir", "", "directory for the audit ledger (default: .notebook-rewriter)")

	rootCmd.AddCommand(convertCmd)
}
