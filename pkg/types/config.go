// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that call the
// conversion API.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. The whole submit-and-poll
	// cycle for one document may span several requests, each bounded by
	// this value.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "markbatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// InputFormat selects which document extensions a batch picks up.
type InputFormat string

const (
	FormatPDF  InputFormat = "pdf"
	FormatEpub InputFormat = "epub"
	FormatHTML InputFormat = "html"
	FormatAll  InputFormat = "all"
)

// Valid reports whether f is one of the supported format selectors.
func (f InputFormat) Valid() bool {
	switch f {
	case FormatPDF, FormatEpub, FormatHTML, FormatAll:
		return true
	}
	return false
}

// Extensions returns the lowercase file extensions matched by the
// selector, including the leading dot.
func (f InputFormat) Extensions() []string {
	switch f {
	case FormatEpub:
		return []string{".epub"}
	case FormatHTML:
		return []string{".html", ".htm"}
	case FormatAll:
		return []string{".pdf", ".epub", ".html", ".htm"}
	default:
		return []string{".pdf"}
	}
}

// ConversionConfig holds settings for one batch conversion run.
type ConversionConfig struct {
	HTTPConfig `yaml:",inline"`

	// InputDir is the directory scanned for documents. Not recursive.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one .md file per converted document.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects which input extensions are converted.
	Format InputFormat `json:"format" yaml:"format"`

	// Concurrency caps the number of simultaneously in-flight
	// conversion calls (default 10).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// LedgerConfig holds settings for the run-history database.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty means
	// <output>/.markbatch/history.db.
	Path string `json:"path" yaml:"path"`

	// MaxRuns is the default number of runs listed by history queries
	// (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
