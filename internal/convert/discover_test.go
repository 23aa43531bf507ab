// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/markbatch/pkg/types"
)

func writeInputs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func TestDiscoverFiles(t *testing.T) {
	tests := []struct {
		name   string
		files  []string
		format types.InputFormat
		want   []string
	}{
		{
			name:   "pdf only",
			files:  []string{"a.pdf", "b.epub", "c.txt"},
			format: types.FormatPDF,
			want:   []string{"a.pdf"},
		},
		{
			name:   "uppercase extension matches",
			files:  []string{"a.pdf", "B.PDF"},
			format: types.FormatPDF,
			want:   []string{"B.PDF", "a.pdf"},
		},
		{
			name:   "html includes htm",
			files:  []string{"page.html", "old.htm", "doc.pdf"},
			format: types.FormatHTML,
			want:   []string{"old.htm", "page.html"},
		},
		{
			name:   "all formats union",
			files:  []string{"a.pdf", "B.PDF", "c.epub", "d.txt"},
			format: types.FormatAll,
			want:   []string{"B.PDF", "a.pdf", "c.epub"},
		},
		{
			name:   "no matches",
			files:  []string{"d.txt", "e.docx"},
			format: types.FormatEpub,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeInputs(t, dir, tt.files...)

			got, err := DiscoverFiles(dir, tt.format)
			if err != nil {
				t.Fatalf("DiscoverFiles: %v", err)
			}

			names := baseNames(got)
			if len(names) != len(tt.want) {
				t.Fatalf("got %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("got %v, want %v", names, tt.want)
					break
				}
			}
		})
	}
}

func TestDiscoverFiles_InvalidFormat(t *testing.T) {
	if _, err := DiscoverFiles(t.TempDir(), "docx"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDiscoverFiles_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, "a.pdf")
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeInputs(t, sub, "b.pdf")

	got, err := DiscoverFiles(dir, types.FormatPDF)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "a.pdf" {
		t.Errorf("expected only top-level a.pdf, got %v", baseNames(got))
	}
}

func TestMakeJobs(t *testing.T) {
	jobs := MakeJobs([]string{"/in/a.pdf", "/in/b.epub"}, "/out")

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].OutputPath != filepath.Join("/out", "a.md") {
		t.Errorf("output path = %q, want /out/a.md", jobs[0].OutputPath)
	}
	if jobs[1].OutputPath != filepath.Join("/out", "b.md") {
		t.Errorf("output path = %q, want /out/b.md", jobs[1].OutputPath)
	}
}

func TestDefaultOutputDir(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/data/docs", "/data/docs_Markdown"},
		{"/data/docs/", "/data/docs_Markdown"},
		{"docs", "docs_Markdown"},
		{"/", "/Markdown"},
	}
	for _, tt := range tests {
		if got := DefaultOutputDir(tt.input); got != tt.want {
			t.Errorf("DefaultOutputDir(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
