// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs batches of document-to-Markdown conversion jobs
// against a remote conversion service under a fixed concurrency cap.
// The conversion itself is wholly delegated; this package owns
// discovery, skip-if-exists idempotence, and result accounting.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/markbatch/pkg/types"
)

// DefaultConcurrency caps simultaneous in-flight remote calls.
const DefaultConcurrency = 10

// maxFailuresShown bounds how many failures the summary details.
const maxFailuresShown = 10

// Converter transforms one document into Markdown text. Implementations
// must be safe for concurrent use: a single shared instance serves all
// in-flight jobs.
type Converter interface {
	// Convert returns the Markdown content for the document at path.
	Convert(ctx context.Context, path string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Results holds every job outcome in completion order.
	Results []types.JobResult

	// Failures lists only the failed jobs, each with a message
	// truncated to the per-job limit.
	Failures []types.JobResult
}

// Total returns the total number of jobs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// Successful returns the combined converted-plus-skipped tally. A
// skipped job's output already exists, so it counts as done.
func (r BatchResult) Successful() int {
	return r.Converted + r.Skipped
}

// HasFailures reports whether any jobs failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(res types.JobResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case types.StatusConverted:
		r.Converted++
	case types.StatusSkipped:
		r.Skipped++
	case types.StatusFailed:
		r.Failed++
		r.Failures = append(r.Failures, res)
	}
}

// ConvertFile runs a single job to completion and returns its result.
// If the output file already exists the job resolves as skipped with no
// remote call and no overwrite, which makes re-runs of a batch resume
// where the previous run stopped. Errors from the remote call or the
// file write become a failed result; they never propagate.
func ConvertFile(ctx context.Context, c Converter, job types.Job) types.JobResult {
	file := filepath.Base(job.SourcePath)

	if _, err := os.Stat(job.OutputPath); err == nil {
		return types.JobResult{File: file, Status: types.StatusSkipped, Message: "already exists"}
	}

	markdown, err := c.Convert(ctx, job.SourcePath)
	if err != nil {
		return types.JobResult{File: file, Status: types.StatusFailed, Message: types.Truncate(err.Error())}
	}
	if markdown == "" {
		return types.JobResult{File: file, Status: types.StatusFailed, Message: "no markdown content returned"}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return types.JobResult{File: file, Status: types.StatusFailed, Message: types.Truncate(err.Error())}
	}
	if err := os.WriteFile(job.OutputPath, []byte(markdown), 0o644); err != nil {
		return types.JobResult{File: file, Status: types.StatusFailed, Message: types.Truncate(err.Error())}
	}

	return types.JobResult{File: file, Status: types.StatusConverted, Message: "converted"}
}

// RunBatch executes all jobs against the shared converter with at most
// concurrency jobs in flight, printing per-file status lines to w as
// results arrive. Results complete in any order. The progress callback,
// when non-nil, is invoked once per completed job from the collector
// goroutine, so it never serializes job execution.
func RunBatch(ctx context.Context, c Converter, jobs []types.Job, concurrency int, progress func(types.JobResult), w io.Writer) BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g := &errgroup.Group{}
	g.SetLimit(concurrency)
	results := make(chan types.JobResult, len(jobs))

	for _, job := range jobs {
		g.Go(func() error {
			results <- ConvertFile(ctx, c, job)
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	var batch BatchResult
	for res := range results {
		batch.add(res)
		switch res.Status {
		case types.StatusSkipped:
			fmt.Fprintf(w, "skipped: %s (already exists)\n", res.File)
		case types.StatusConverted:
			fmt.Fprintf(w, "converted: %s\n", res.File)
		case types.StatusFailed:
			fmt.Fprintf(w, "failed:  %s (%s)\n", res.File, res.Message)
		}
		if progress != nil {
			progress(res)
		}
	}
	return batch
}

// PrintSummary writes the aggregate outcome of a batch. Skipped jobs
// are folded into the successful tally; the first ten failures are
// detailed and the remainder only counted.
func PrintSummary(w io.Writer, r BatchResult, outputDir string) {
	fmt.Fprintf(w, "\nConversion summary:\n")
	fmt.Fprintf(w, "  Successful: %d\n", r.Successful())
	fmt.Fprintf(w, "  Failed: %d\n", r.Failed)
	fmt.Fprintf(w, "  Total: %d\n", r.Total())
	fmt.Fprintf(w, "  Markdown files saved to: %s\n", outputDir)

	if !r.HasFailures() {
		return
	}
	fmt.Fprintf(w, "\nFailed conversions (first %d):\n", maxFailuresShown)
	for i, f := range r.Failures {
		if i == maxFailuresShown {
			break
		}
		fmt.Fprintf(w, "  - %s\n    Error: %s\n", f.File, f.Message)
	}
	if extra := len(r.Failures) - maxFailuresShown; extra > 0 {
		fmt.Fprintf(w, "  ... and %d more failures\n", extra)
	}
}
