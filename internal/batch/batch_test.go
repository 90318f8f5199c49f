// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

const validNotebook = `{
  "cells": [
    {
      "cell_type": "code",
      "source": ["from google.colab import drive\n", "drive.mount('/content/drive')\n", "df = pd.read_csv('/content/drive/MyDrive/shared-data/Notebook datafiles/cats.csv')\n"]
    }
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func writeNotebook(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animals.ipynb")
	writeNotebook(t, path, validNotebook)

	require.NoError(t, Convert(path, types.DefaultRewriteConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "borealisdata.ca")
	assert.Contains(t, content, "./cats.csv")
	assert.NotContains(t, content, "google.colab")
	assert.NotContains(t, content, "/content/drive/")
}

func TestConvertMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ipynb")
	writeNotebook(t, path, "{not json")

	err := Convert(path, types.DefaultRewriteConfig())
	require.Error(t, err)

	// The file is untouched: nothing was written before the failure.
	data, err2 := os.ReadFile(path)
	require.NoError(t, err2)
	assert.Equal(t, "{not json", string(data))
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, filepath.Join(dir, "a.ipynb"), validNotebook)
	writeNotebook(t, filepath.Join(dir, "b.ipynb"), validNotebook)
	writeNotebook(t, filepath.Join(dir, "nested", "deep", "c.ipynb"), validNotebook)
	writeNotebook(t, filepath.Join(dir, "notes.txt"), "plain text, not a notebook")

	var out bytes.Buffer
	result, err := ConvertAll(types.BatchConfig{RootDir: dir}, types.DefaultRewriteConfig(), &out)
	require.NoError(t, err)

	assert.Len(t, result.Converted, 3)
	assert.Empty(t, result.Failures)
	assert.False(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())

	// The .txt file is untouched and unlisted.
	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plain text, not a notebook", string(data))
	for _, p := range result.Converted {
		assert.True(t, strings.HasSuffix(p, ".ipynb"), "unexpected converted path %s", p)
	}
}

func TestConvertAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeNotebook(t, filepath.Join(dir, "good1.ipynb"), validNotebook)
	writeNotebook(t, filepath.Join(dir, "bad.ipynb"), "{definitely not a notebook")
	writeNotebook(t, filepath.Join(dir, "good2.ipynb"), validNotebook)

	var out bytes.Buffer
	result, err := ConvertAll(types.BatchConfig{RootDir: dir}, types.DefaultRewriteConfig(), &out)
	require.NoError(t, err)

	assert.Len(t, result.Converted, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, filepath.Join(dir, "bad.ipynb"), result.Failures[0].Path)
	assert.Contains(t, result.Failures[0].Message, "bad.ipynb")
	assert.True(t, result.HasFailures())

	msgs := result.Errors()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "bad.ipynb")
}

func TestConvertAllUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	writeNotebook(t, filepath.Join(dir, "good.ipynb"), validNotebook)
	locked := filepath.Join(dir, "locked")
	writeNotebook(t, filepath.Join(locked, "hidden.ipynb"), validNotebook)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	var out bytes.Buffer
	result, err := ConvertAll(types.BatchConfig{RootDir: dir}, types.DefaultRewriteConfig(), &out)
	require.NoError(t, err)

	// The unreadable subtree is recorded as a failure; the rest of the
	// batch still runs.
	assert.Equal(t, []string{filepath.Join(dir, "good.ipynb")}, result.Converted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, locked, result.Failures[0].Path)
	assert.Contains(t, result.Failures[0].Message, "locked")
}

func TestConvertAllMissingRoot(t *testing.T) {
	var out bytes.Buffer
	_, err := ConvertAll(
		types.BatchConfig{RootDir: filepath.Join(t.TempDir(), "absent")},
		types.DefaultRewriteConfig(), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "walking")
}

func TestWriteSummary(t *testing.T) {
	result := Result{
		Converted: []string{"x/a.ipynb", "x/b.ipynb"},
		Failures: []Failure{
			{Path: "x/c.ipynb", Message: "failed to convert x/c.ipynb: invalid notebook"},
		},
	}

	var out bytes.Buffer
	result.WriteSummary(&out)
	s := out.String()

	assert.Contains(t, s, "2 converted, 1 failed")
	assert.Contains(t, s, "x/a.ipynb")
	assert.Contains(t, s, "x/b.ipynb")
	assert.Contains(t, s, "failed to convert x/c.ipynb")
}
