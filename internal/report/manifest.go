// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML manifest describing a finished batch run
// into the output directory. The manifest is informational; nothing
// reads it back during conversion.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markbatch/pkg/types"
)

// ManifestFile is the name of the manifest written into the output
// directory after each run.
const ManifestFile = "conversion-report.yaml"

// Manifest summarizes one batch run.
type Manifest struct {
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	InputDir   string            `yaml:"input_dir"`
	OutputDir  string            `yaml:"output_dir"`
	Format     types.InputFormat `yaml:"format"`
	Converted  int               `yaml:"converted"`
	Skipped    int               `yaml:"skipped"`
	Failed     int               `yaml:"failed"`
	Jobs       []types.JobResult `yaml:"jobs"`
}

// Write marshals the manifest and writes it into m.OutputDir. The
// directory is created if missing.
func Write(m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(m.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(m.OutputDir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Read loads a manifest from dir. Used by tests and tooling.
func Read(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}
