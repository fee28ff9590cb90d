// Package ingest collects documents from external sources and runs them
// through the chunking and indexing pipeline.
package ingest

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoAdapter        = errors.New("no adapter accepts this source")
	ErrDocumentNotFound = errors.New("raw document not found")
)

// Source types reported in document records and chunk metadata.
const (
	SourceTypeFile   = "file"
	SourceTypeURL    = "url"
	SourceTypeGitHub = "github"
	SourceTypeJira   = "jira"
)

// CollectedDocument is one document pulled from a source, before any
// chunking or storage happens.
type CollectedDocument struct {
	Name       string
	SourceType string
	Path       string
	Content    string
	Metadata   map[string]interface{}
}

// Adapter turns one kind of source reference into documents.
type Adapter interface {
	// SourceType names the adapter, matching the source_type recorded
	// on documents it collects.
	SourceType() string
	// Matches reports whether this adapter handles the given source
	// reference.
	Matches(source string) bool
	// Collect fetches the documents behind the source reference.
	Collect(ctx context.Context, source string) ([]CollectedDocument, error)
}

// Registry resolves source references to adapters. Adapters are probed
// in registration order, so more specific ones go first.
type Registry struct {
	adapters []Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	return &Registry{adapters: adapters}
}

// Detect returns the first adapter that accepts the source.
func (r *Registry) Detect(source string) (Adapter, error) {
	for _, a := range r.adapters {
		if a.Matches(source) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoAdapter, source)
}

// ByType returns the adapter with the given source type name.
func (r *Registry) ByType(sourceType string) (Adapter, error) {
	for _, a := range r.adapters {
		if a.SourceType() == sourceType {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown source type %q", ErrNoAdapter, sourceType)
}
