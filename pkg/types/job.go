// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// JobStatus indicates how a single conversion job resolved.
type JobStatus string

const (
	// StatusConverted means the remote service produced Markdown and it
	// was written to the output directory.
	StatusConverted JobStatus = "converted"

	// StatusSkipped means the output file already existed, so no remote
	// call was made.
	StatusSkipped JobStatus = "skipped"

	// StatusFailed means the remote call or the file write failed.
	StatusFailed JobStatus = "failed"
)

// maxMessageLen bounds the stored error/status text per job.
const maxMessageLen = 200

// Job is one input-file-to-Markdown unit of work. Jobs are created at
// discovery time and consumed exactly once by the batch runner.
type Job struct {
	// SourcePath is the document to convert.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// OutputPath is the derived Markdown destination: same base name
	// with a .md extension, inside the output directory.
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// JobResult is the immutable outcome of one job.
type JobResult struct {
	// File is the base name of the source document.
	File string `json:"file" yaml:"file"`

	// Status records how the job resolved.
	Status JobStatus `json:"status" yaml:"status"`

	// Message carries status text or a truncated error (at most 200
	// characters).
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Succeeded reports whether the job counts toward the successful tally.
// Skipped jobs count as successful: their output already exists.
func (r JobResult) Succeeded() bool {
	return r.Status != StatusFailed
}

// Truncate bounds msg to the per-job message limit, counting runes so a
// multi-byte character is never split.
func Truncate(msg string) string {
	runes := []rune(msg)
	if len(runes) > maxMessageLen {
		return string(runes[:maxMessageLen])
	}
	return msg
}
