// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/uraprojects/notebook-rewriter/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the conversion audit ledger (runs, export)",
	Long: `Ledger inspects the local SQLite audit ledger written by
"convert --ledger". Use subcommands to list recorded runs or export
the full ledger to YAML or JSON.`,
}

// --- runs subcommand ---

var ledgerRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded conversion runs, most recent first",
	RunE:  runLedgerRuns,
}

func runLedgerRuns(cmd *cobra.Command, args []string) error {
	store, err := ledger.NewStore(ledgerConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %-40s  %-9s  %s\n",
		"Run", "Started", "Root", "Converted", "Failed")
	for _, r := range runs {
		root := r.RootDir
		if len(root) > 40 {
			root = root[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %-40s  %-9d  %d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), root, r.Converted, r.Failed)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the audit ledger to YAML or JSON",
	RunE:  runLedgerExport,
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := ledger.NewStore(ledgerConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to export.yaml in the ledger directory")
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to export.json in the ledger directory")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	ledgerCmd.PersistentFlags().String("ledger-dir", "", "directory for the audit ledger (default: .notebook-rewriter)")

	ledgerRunsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	ledgerRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	ledgerExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	ledgerCmd.AddCommand(ledgerRunsCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	rootCmd.AddCommand(ledgerCmd)
}
