package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tracerag/src/infrastructure/integrations/unstructured"
)

// textExtensions lists the plain-text file types the file adapter reads
// when walking a directory.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".rst": true,
	".log": true,
}

// FileAdapter reads documents from the local filesystem. A source can
// be a single file or a directory, which is walked recursively for
// plain-text files. With a converter configured, PDF files are sent
// through the extraction API and their text is collected with page
// markers.
type FileAdapter struct {
	converter *unstructured.UnstructuredService
}

func NewFileAdapter(converter *unstructured.UnstructuredService) *FileAdapter {
	return &FileAdapter{converter: converter}
}

func (a *FileAdapter) SourceType() string {
	return SourceTypeFile
}

func (a *FileAdapter) Matches(source string) bool {
	return !strings.Contains(source, "://")
}

func (a *FileAdapter) readable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return a.converter != nil
	}
	return textExtensions[ext]
}

func (a *FileAdapter) Collect(ctx context.Context, source string) ([]CollectedDocument, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}

	if !info.IsDir() {
		doc, err := a.readFile(source)
		if err != nil {
			return nil, err
		}
		return []CollectedDocument{doc}, nil
	}

	var docs []CollectedDocument
	err = filepath.WalkDir(source, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !a.readable(path) {
			return nil
		}
		doc, err := a.readFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return docs, nil
}

func (a *FileAdapter) readFile(path string) (CollectedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CollectedDocument{}, fmt.Errorf("failed to read file: %w", err)
	}

	content := string(data)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if a.converter == nil {
			return CollectedDocument{}, fmt.Errorf("no converter configured for pdf file %s", path)
		}
		content, err = a.extractPDF(filepath.Base(path), data)
		if err != nil {
			return CollectedDocument{}, err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return CollectedDocument{
		Name:       filepath.Base(path),
		SourceType: SourceTypeFile,
		Path:       abs,
		Content:    content,
		Metadata: map[string]interface{}{
			"file_size": len(data),
			"extension": filepath.Ext(path),
		},
	}, nil
}

// extractPDF flattens the extraction elements into text, inserting a
// page marker whenever the page number changes. The paragraph-overlap
// chunker treats those markers as paragraph breaks.
func (a *FileAdapter) extractPDF(filename string, data []byte) (string, error) {
	elements, err := a.converter.ConvertPDFToText(filename, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var sb strings.Builder
	lastPage := 0
	for _, el := range elements {
		if el.Text == "" {
			continue
		}
		if el.Metadata.PageNumber > 0 && el.Metadata.PageNumber != lastPage {
			if lastPage != 0 {
				fmt.Fprintf(&sb, "[Page %d]\n", el.Metadata.PageNumber)
			}
			lastPage = el.Metadata.PageNumber
		}
		sb.WriteString(el.Text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
