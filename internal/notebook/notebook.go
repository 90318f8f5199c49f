// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook reads and writes Jupyter notebook files. Only the
// cells collection and each cell's type and source are interpreted;
// every other field is carried through as raw JSON and re-emitted
// unchanged, so a rewrite touches nothing it does not understand.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	cellsField    = "cells"
	cellTypeField = "cell_type"
	sourceField   = "source"

	// indent is the serialization indent width, matching the two-space
	// style nbformat tooling emits.
	indent = "  "
)

// ParseError reports a file that is not a well-formed notebook: invalid
// JSON, or a document without a usable cells collection.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid notebook: %v", e.Err)
	}
	return fmt.Sprintf("invalid notebook %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Cell is one unit of a notebook. Fields other than cell_type and source
// (metadata, outputs, execution_count, ...) are held raw.
type Cell struct {
	fields map[string]json.RawMessage
}

// Type returns the cell's cell_type tag, or "" if absent.
func (c *Cell) Type() string {
	raw, ok := c.fields[cellTypeField]
	if !ok {
		return ""
	}
	var t string
	if err := json.Unmarshal(raw, &t); err != nil {
		return ""
	}
	return t
}

// SourceLines returns the cell source normalized to a line sequence. A
// bare string source is wrapped as a single-element sequence; a missing
// source is empty. The raw cell is not modified.
func (c *Cell) SourceLines() ([]string, error) {
	raw, ok := c.fields[sourceField]
	if !ok {
		return nil, nil
	}
	if string(raw) == "null" {
		return nil, fmt.Errorf("cell source is null")
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("cell source is neither string nor string list")
	}
	return []string{s}, nil
}

// SetSource replaces the cell source with a line sequence.
func (c *Cell) SetSource(lines []string) {
	if lines == nil {
		lines = []string{}
	}
	// Marshaling []string cannot fail.
	raw, _ := json.Marshal(lines)
	c.fields[sourceField] = raw
}

// Document is a parsed notebook: the ordered cells plus all other
// top-level fields held raw.
type Document struct {
	Cells []*Cell

	fields map[string]json.RawMessage
}

// Parse decodes a notebook document. A document that is not valid JSON,
// or whose cells field is missing or not a list, yields a *ParseError.
func Parse(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ParseError{Err: err}
	}

	rawCells, ok := top[cellsField]
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("missing %q field", cellsField)}
	}

	var cellMaps []map[string]json.RawMessage
	if err := json.Unmarshal(rawCells, &cellMaps); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("%q is not a cell list: %w", cellsField, err)}
	}
	// Unmarshal leaves the slice nil for JSON null; an empty list decodes
	// to a non-nil empty slice.
	if cellMaps == nil {
		return nil, &ParseError{Err: fmt.Errorf("%q is null", cellsField)}
	}

	doc := &Document{
		Cells:  make([]*Cell, len(cellMaps)),
		fields: top,
	}
	for i, m := range cellMaps {
		if m == nil {
			m = map[string]json.RawMessage{}
		}
		doc.Cells[i] = &Cell{fields: m}
	}
	delete(doc.fields, cellsField)
	return doc, nil
}

// Load reads and parses the notebook at path. Read failures come back as
// wrapped IO errors; malformed content as *ParseError carrying the path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Encode serializes the document with a fixed two-space indent. Cell
// order and all raw fields are preserved; top-level and per-cell keys
// are emitted in sorted order.
func (d *Document) Encode() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.fields)+1)
	for k, v := range d.fields {
		top[k] = v
	}

	cells := make([]map[string]json.RawMessage, len(d.Cells))
	for i, c := range d.Cells {
		cells[i] = c.fields
	}
	rawCells, err := json.Marshal(cells)
	if err != nil {
		return nil, fmt.Errorf("encoding cells: %w", err)
	}
	top[cellsField] = rawCells

	out, err := json.MarshalIndent(top, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	return append(out, '\n'), nil
}

// Save serializes the document and writes it to path, replacing any
// existing file. The write happens only after encoding succeeds.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing notebook: %w", err)
	}
	return nil
}
