// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch discovers notebooks under a directory tree and runs the
// rewrite over each one, isolating per-file failures so one bad notebook
// never stops the rest.
package batch

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/uraprojects/notebook-rewriter/internal/notebook"
	"github.com/uraprojects/notebook-rewriter/internal/rewrite"
	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

// Failure records one path that could not be converted and why.
type Failure struct {
	Path    string
	Message string
}

// Result holds the outcome of a batch run: the paths converted and the
// failures, in visit order.
type Result struct {
	Converted []string
	Failures  []Failure
}

// Errors returns the human-readable failure messages, in visit order.
func (r Result) Errors() []string {
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.Message
	}
	return msgs
}

// Total returns the number of notebooks processed.
func (r Result) Total() int {
	return len(r.Converted) + len(r.Failures)
}

// HasFailures reports whether any notebook failed conversion.
func (r Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// WriteSummary prints the human-readable run report: counts, the
// converted paths, then the failure messages.
func (r Result) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nConversion summary: %d converted, %d failed\n",
		len(r.Converted), len(r.Failures))

	if len(r.Converted) > 0 {
		fmt.Fprintln(w, "\nConverted notebooks:")
		for _, p := range r.Converted {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s\n", f.Message)
		}
	}
}

// Convert rewrites a single notebook in place: load, transform, save.
// The file is only written after the full transform succeeds. Errors
// propagate to the caller; batch runs recover at the per-file level.
func Convert(path string, cfg types.RewriteConfig) error {
	doc, err := notebook.Load(path)
	if err != nil {
		return err
	}
	if err := rewrite.RewriteDocument(doc, cfg); err != nil {
		return err
	}
	return doc.Save(path)
}

// ConvertAll walks root and converts every file with the configured
// extension, printing per-file status to w. A failing file, or an
// unreadable directory, is recorded and the walk continues; only a
// missing or unusable root aborts the run.
func ConvertAll(bcfg types.BatchConfig, rcfg types.RewriteConfig, w io.Writer) (Result, error) {
	ext := bcfg.Extension
	if ext == "" {
		ext = types.DefaultExtension
	}

	if _, err := os.Stat(bcfg.RootDir); err != nil {
		return Result{}, fmt.Errorf("walking %s: %w", bcfg.RootDir, err)
	}

	var result Result
	err := filepath.Walk(bcfg.RootDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Path:    path,
				Message: fmt.Sprintf("failed to walk %s: %v", path, err),
			})
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ext) {
			return nil
		}

		if err := Convert(path, rcfg); err != nil {
			result.Failures = append(result.Failures, Failure{
				Path:    path,
				Message: fmt.Sprintf("failed to convert %s: %v", path, err),
			})
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			return nil
		}
		result.Converted = append(result.Converted, path)
		fmt.Fprintf(w, "converted: %s\n", path)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walking %s: %w", bcfg.RootDir, err)
	}
	return result, nil
}
