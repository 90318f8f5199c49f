// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite applies the Drive-to-Borealis transform to notebook
// cells: mount-trigger lines become the replacement block (first hit) or
// disappear (later hits), and every other line has the ordered path
// mapping table applied to it.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/uraprojects/notebook-rewriter/internal/notebook"
	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

// lineKind tags the outcome of classifying one source line.
type lineKind int

const (
	// lineRewritten: the line stays, with path mappings applied.
	lineRewritten lineKind = iota
	// lineReplaced: the line was the cell's first mount trigger and is
	// replaced by the block.
	lineReplaced
	// lineDropped: a mount trigger after the first; the line is removed.
	lineDropped
)

// cellRewriter carries the per-cell state for a single pass over the
// source lines: whether the replacement block has been emitted yet.
type cellRewriter struct {
	cfg      types.RewriteConfig
	replaced bool
}

// rewriteLine classifies and transforms one line.
func (r *cellRewriter) rewriteLine(line string) (string, lineKind) {
	for _, marker := range r.cfg.TriggerMarkers {
		if strings.Contains(line, marker) {
			if r.replaced {
				return "", lineDropped
			}
			r.replaced = true
			return r.cfg.ReplacementBlock, lineReplaced
		}
	}

	for _, m := range r.cfg.Mappings {
		line = strings.ReplaceAll(line, m.Old, m.New)
	}
	return line, lineRewritten
}

// RewriteCell rewrites one code cell in place. The source is normalized
// to a line sequence regardless of whether anything changed.
func RewriteCell(cell *notebook.Cell, cfg types.RewriteConfig) error {
	lines, err := cell.SourceLines()
	if err != nil {
		return err
	}

	r := cellRewriter{cfg: cfg}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		text, kind := r.rewriteLine(line)
		if kind == lineDropped {
			continue
		}
		out = append(out, text)
	}

	cell.SetSource(out)
	return nil
}

// RewriteDocument rewrites every code cell of doc in place. Non-code
// cells and cell ordering are untouched.
func RewriteDocument(doc *notebook.Document, cfg types.RewriteConfig) error {
	for i, cell := range doc.Cells {
		if cell.Type() != "code" {
			continue
		}
		if err := RewriteCell(cell, cfg); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// CheckMappingOrder verifies the mapping table's ordering contract: an
// entry whose pattern contains an earlier entry's pattern is unreachable,
// because the earlier, more general entry rewrites the text first. More
// specific patterns must come before the patterns they contain.
func CheckMappingOrder(mappings []types.PathMapping) error {
	for i, earlier := range mappings {
		for j := i + 1; j < len(mappings); j++ {
			if strings.Contains(mappings[j].Old, earlier.Old) {
				return fmt.Errorf("mapping %d (%q) is shadowed by mapping %d (%q): move the more specific entry first",
					j, mappings[j].Old, i, earlier.Old)
			}
		}
	}
	return nil
}
