package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tracerag/src/core/ingest"
)

func newRegistry() *ingest.Registry {
	return ingest.NewRegistry(
		ingest.NewGitHubAdapter(""),
		ingest.NewJiraAdapter("https://jira.example.com", "", "", nil),
		ingest.NewURLAdapter(nil),
		ingest.NewFileAdapter(nil),
	)
}

func TestRegistryDetect(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{source: "https://github.com/octocat/hello-world", want: ingest.SourceTypeGitHub},
		{source: "https://github.com/octocat/hello-world/blob/main/docs/guide.md", want: ingest.SourceTypeGitHub},
		{source: "jira://PROJ-42", want: ingest.SourceTypeJira},
		{source: "https://example.com/page.html", want: ingest.SourceTypeURL},
		{source: "http://example.com", want: ingest.SourceTypeURL},
		{source: "/var/data/report.txt", want: ingest.SourceTypeFile},
		{source: "notes.md", want: ingest.SourceTypeFile},
	}

	registry := newRegistry()
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			adapter, err := registry.Detect(tt.source)
			if err != nil {
				t.Fatalf("Detect returned error: %v", err)
			}
			if adapter.SourceType() != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.source, adapter.SourceType(), tt.want)
			}
		})
	}
}

func TestRegistryDetectNoMatch(t *testing.T) {
	registry := newRegistry()
	for _, source := range []string{"ftp://example.com/file", "jira://not-a-key"} {
		if _, err := registry.Detect(source); !errors.Is(err, ingest.ErrNoAdapter) {
			t.Errorf("Detect(%q) error = %v, want ErrNoAdapter", source, err)
		}
	}
}

func TestRegistryByType(t *testing.T) {
	registry := newRegistry()

	adapter, err := registry.ByType(ingest.SourceTypeJira)
	if err != nil {
		t.Fatalf("ByType returned error: %v", err)
	}
	if adapter.SourceType() != ingest.SourceTypeJira {
		t.Errorf("ByType returned %s", adapter.SourceType())
	}

	if _, err := registry.ByType("ftp"); !errors.Is(err, ingest.ErrNoAdapter) {
		t.Errorf("ByType(ftp) error = %v, want ErrNoAdapter", err)
	}
}

func TestFileAdapterCollectSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("quarterly numbers"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := ingest.NewFileAdapter(nil).Collect(context.Background(), path)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}

	doc := docs[0]
	if doc.Name != "report.txt" {
		t.Errorf("name = %q", doc.Name)
	}
	if doc.Content != "quarterly numbers" {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.SourceType != ingest.SourceTypeFile {
		t.Errorf("source type = %q", doc.SourceType)
	}
	if doc.Metadata["file_size"] != len("quarterly numbers") {
		t.Errorf("file_size = %v", doc.Metadata["file_size"])
	}
}

func TestFileAdapterCollectDirectoryFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":    "alpha",
		"b.md":     "bravo",
		"c.bin":    "skip me",
		"sub/d.md": "delta",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := ingest.NewFileAdapter(nil).Collect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	for _, doc := range docs {
		if doc.Name == "c.bin" {
			t.Error("binary file was collected")
		}
	}
}
