// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markbatch/pkg/types"
)

func TestWriteAndRead(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	m := Manifest{
		StartedAt:  start,
		FinishedAt: start.Add(30 * time.Second),
		InputDir:   "/data/docs",
		OutputDir:  outDir,
		Format:     types.FormatAll,
		Converted:  2,
		Skipped:    1,
		Failed:     1,
		Jobs: []types.JobResult{
			{File: "a.pdf", Status: types.StatusConverted, Message: "converted"},
			{File: "b.epub", Status: types.StatusFailed, Message: "no markdown content returned"},
		},
	}
	require.NoError(t, Write(m))

	got, err := Read(outDir)
	require.NoError(t, err)
	assert.Equal(t, m.InputDir, got.InputDir)
	assert.Equal(t, types.FormatAll, got.Format)
	assert.Equal(t, 2, got.Converted)
	require.Len(t, got.Jobs, 2)
	assert.Equal(t, types.StatusFailed, got.Jobs[1].Status)
}

func TestWrite_CreatesOutputDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "missing", "out")
	require.NoError(t, Write(Manifest{OutputDir: outDir}))

	_, err := os.Stat(filepath.Join(outDir, ManifestFile))
	require.NoError(t, err)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(t.TempDir())
	assert.True(t, os.IsNotExist(err))
}
