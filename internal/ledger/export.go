// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds a run with its per-file outcomes for export.
type ExportEntry struct {
	Run   Run       `json:"run" yaml:"run"`
	Files []RunFile `json:"files" yaml:"files"`
}

const exportLimit = 100000

// ExportYAML writes the full ledger to ledgerDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.ledgerDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full ledger to ledgerDir/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	path := filepath.Join(s.ledgerDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	runs, err := s.Runs(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		files, err := s.RunFiles(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("querying files for run %d: %w", r.ID, err)
		}
		entries[i] = ExportEntry{Run: r, Files: files}
	}
	return entries, nil
}
