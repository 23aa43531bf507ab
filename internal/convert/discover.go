// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/markbatch/pkg/types"
)

// DiscoverFiles lists the documents in dir whose extension matches the
// format selector. Matching is case-insensitive and non-recursive.
// Paths that differ only by case are listed once each; the same path is
// never returned twice. An empty result is not an error.
func DiscoverFiles(dir string, format types.InputFormat) ([]string, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	wanted := make(map[string]bool)
	for _, ext := range format.Extensions() {
		wanted[ext] = true
	}

	seen := make(map[string]bool)
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !wanted[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		path := filepath.Join(dir, name)
		if seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// MakeJobs derives one Job per source path, mapping each document to a
// Markdown file of the same base name inside outputDir.
func MakeJobs(paths []string, outputDir string) []types.Job {
	jobs := make([]types.Job, len(paths))
	for i, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		jobs[i] = types.Job{
			SourcePath: p,
			OutputPath: filepath.Join(outputDir, base+".md"),
		}
	}
	return jobs
}

// DefaultOutputDir derives the output directory for input when none is
// given: a "_Markdown" sibling of the input directory. When the input
// path has no usable base name (e.g. the filesystem root), the output
// nests inside it instead.
func DefaultOutputDir(input string) string {
	trimmed := strings.TrimRight(input, string(os.PathSeparator))
	base := filepath.Base(trimmed)
	if trimmed == "" || base == "." || base == string(os.PathSeparator) {
		return filepath.Join(input, "Markdown")
	}
	return filepath.Join(filepath.Dir(trimmed), base+"_Markdown")
}
