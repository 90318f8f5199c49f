// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(types.LedgerConfig{LedgerDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestRecordRun(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	runID, err := store.RecordRun(ctx, "/data/notebooks", started, []RunFile{
		{Path: "/data/notebooks/a.ipynb", Status: StatusConverted},
		{Path: "/data/notebooks/b.ipynb", Status: StatusConverted},
		{Path: "/data/notebooks/c.ipynb", Status: StatusFailed,
			Message: "failed to convert /data/notebooks/c.ipynb: invalid notebook"},
	})
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "/data/notebooks", runs[0].RootDir)
	assert.Equal(t, 2, runs[0].Converted)
	assert.Equal(t, 1, runs[0].Failed)
	assert.True(t, started.Equal(runs[0].StartedAt))

	files, err := store.RunFiles(ctx, runID)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, StatusConverted, files[0].Status)
	assert.Equal(t, "/data/notebooks/a.ipynb", files[0].Path)
	assert.Equal(t, StatusFailed, files[2].Status)
	// The failing file's path is a column of its own, not just message text.
	assert.Equal(t, "/data/notebooks/c.ipynb", files[2].Path)
	assert.Contains(t, files[2].Message, "c.ipynb")
}

func TestRunsOrderAndLimit(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.RecordRun(ctx, "/data", time.Now(),
			[]RunFile{{Path: "a.ipynb", Status: StatusConverted}})
		require.NoError(t, err)
	}

	runs, err := store.Runs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Most recent first.
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Greater(t, runs[1].ID, runs[2].ID)
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	cfg := types.LedgerConfig{LedgerDir: dir}

	store, err := NewStore(cfg)
	require.NoError(t, err)
	_, err = store.RecordRun(context.Background(), "/data", time.Now(),
		[]RunFile{{Path: "a.ipynb", Status: StatusConverted}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening finds the existing schema and data.
	store2, err := NewStore(cfg)
	require.NoError(t, err)
	defer store2.Close()

	runs, err := store2.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestExport(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, "/data", time.Now().UTC(), []RunFile{
		{Path: "a.ipynb", Status: StatusConverted},
		{Path: "b.ipynb", Status: StatusFailed, Message: "failed to convert b.ipynb: boom"},
	})
	require.NoError(t, err)

	require.NoError(t, store.ExportYAML(ctx))
	require.NoError(t, store.ExportJSON(ctx))

	yamlData, err := os.ReadFile(filepath.Join(dir, "export.yaml"))
	require.NoError(t, err)
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(yamlData, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, 1, fromYAML[0].Run.Converted)
	require.Len(t, fromYAML[0].Files, 2)

	jsonData, err := os.ReadFile(filepath.Join(dir, "export.json"))
	require.NoError(t, err)
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(jsonData, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, fromYAML[0].Run.RootDir, fromJSON[0].Run.RootDir)
	assert.Equal(t, fromYAML[0].Files, fromJSON[0].Files)
}
