// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markbatch/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(start time.Time) Run {
	return Run{
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		InputDir:   "/data/docs",
		OutputDir:  "/data/docs_Markdown",
		Format:     types.FormatPDF,
		Converted:  2,
		Skipped:    1,
		Failed:     1,
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	id, err := s.RecordRun(sampleRun(start), []types.JobResult{
		{File: "a.pdf", Status: types.StatusConverted, Message: "converted"},
		{File: "b.pdf", Status: types.StatusSkipped, Message: "already exists"},
		{File: "c.pdf", Status: types.StatusConverted, Message: "converted"},
		{File: "d.pdf", Status: types.StatusFailed, Message: "service unavailable"},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, id, r.ID)
	assert.Equal(t, start, r.StartedAt)
	assert.Equal(t, types.FormatPDF, r.Format)
	assert.Equal(t, 4, r.Total())

	jobs, err := s.RunJobs(id)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, "d.pdf", jobs[3].File)
	assert.Equal(t, types.StatusFailed, jobs[3].Status)
}

func TestRecentRuns_OrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.RecordRun(sampleRun(base.Add(time.Duration(i)*time.Hour)), nil)
		require.NoError(t, err)
	}

	runs, err := s.RecentRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Most recent first.
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Greater(t, runs[1].ID, runs[2].ID)
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".markbatch", "nested", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.RecordRun(sampleRun(time.Now()), nil)
	require.NoError(t, err)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/out", ".markbatch", "history.db"),
		DefaultPath("/out"))
}

func TestRunJobs_UnknownRun(t *testing.T) {
	s := openTestStore(t)
	jobs, err := s.RunJobs(42)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
