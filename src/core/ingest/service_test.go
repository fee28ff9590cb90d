package ingest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/weaviate/weaviate/entities/models"

	"tracerag/src/core/chunking"
	"tracerag/src/core/ingest"
	"tracerag/src/storage/elastic"
	"tracerag/src/storage/postgres/chunkctrl"
	"tracerag/src/storage/postgres/documentctrl"
	"tracerag/src/storage/weaviate"
)

type fakeAdapter struct {
	docs []ingest.CollectedDocument
}

func (a *fakeAdapter) SourceType() string         { return ingest.SourceTypeFile }
func (a *fakeAdapter) Matches(source string) bool { return true }

func (a *fakeAdapter) Collect(_ context.Context, _ string) ([]ingest.CollectedDocument, error) {
	return a.docs, nil
}

type fakePayloads struct {
	objects map[string][]byte
}

func (f *fakePayloads) EnsureBucketExists(_ context.Context, _ string) error { return nil }

func (f *fakePayloads) PutObject(_ context.Context, _, objectName string, data []byte) error {
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakePayloads) DeleteObject(_ context.Context, _, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

func (f *fakePayloads) GetBucketAndObjectFromURL(minioURL string) (string, string) {
	parts := strings.SplitN(minioURL, "/", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

type fakeDocuments struct {
	nextID int
	byHash map[string]*documentctrl.RawDocument
	byID   map[string]*documentctrl.RawDocument
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{
		nextID: 1,
		byHash: map[string]*documentctrl.RawDocument{},
		byID:   map[string]*documentctrl.RawDocument{},
	}
}

func (f *fakeDocuments) Create(_ context.Context, name, sourceType, path, contentHash, minioURL string, metadata json.RawMessage) (*documentctrl.RawDocument, error) {
	doc := &documentctrl.RawDocument{
		ID:          fmt.Sprintf("doc-%d", f.nextID),
		Name:        name,
		SourceType:  sourceType,
		Path:        path,
		ContentHash: contentHash,
		MinioURL:    minioURL,
		Metadata:    metadata,
	}
	f.nextID++
	f.byHash[contentHash] = doc
	f.byID[doc.ID] = doc
	return doc, nil
}

func (f *fakeDocuments) GetByID(_ context.Context, id string) (*documentctrl.RawDocument, error) {
	return f.byID[id], nil
}

func (f *fakeDocuments) GetByContentHash(_ context.Context, hash string) (*documentctrl.RawDocument, error) {
	return f.byHash[hash], nil
}

func (f *fakeDocuments) Delete(_ context.Context, id string) error {
	if doc, ok := f.byID[id]; ok {
		delete(f.byHash, doc.ContentHash)
		delete(f.byID, id)
	}
	return nil
}

type fakeChunks struct {
	created []chunkctrl.Chunk
}

func (f *fakeChunks) Create(_ context.Context, rawDocumentID, chunkID string, chunkIndex int, content, vectorID string, metadata json.RawMessage) (*chunkctrl.Chunk, error) {
	chunk := chunkctrl.Chunk{
		RawDocumentID: rawDocumentID,
		ChunkID:       chunkID,
		ChunkIndex:    chunkIndex,
		Content:       content,
		VectorID:      vectorID,
		Metadata:      metadata,
	}
	f.created = append(f.created, chunk)
	return &chunk, nil
}

func (f *fakeChunks) DeleteByDocumentID(_ context.Context, rawDocumentID string) error {
	kept := f.created[:0]
	for _, c := range f.created {
		if c.RawDocumentID != rawDocumentID {
			kept = append(kept, c)
		}
	}
	f.created = kept
	return nil
}

type fakeVectors struct {
	added   int
	deleted []string
}

func (f *fakeVectors) EnsureSchema(_ context.Context, _ string, _ []*models.Property) error {
	return nil
}

func (f *fakeVectors) BatchAddVectors(_ context.Context, _ string, objects []weaviate.VectorObject) ([]string, error) {
	ids := make([]string, len(objects))
	for i := range objects {
		ids[i] = fmt.Sprintf("vec-%d", f.added)
		f.added++
	}
	return ids, nil
}

func (f *fakeVectors) DeleteByDocument(_ context.Context, _, rawDocumentID string) error {
	f.deleted = append(f.deleted, rawDocumentID)
	return nil
}

type fakeKeywords struct {
	indexed []elastic.ChunkDocument
	deleted []string
}

func (f *fakeKeywords) EnsureIndex(_ context.Context, _ string) error { return nil }

func (f *fakeKeywords) IndexChunk(_ context.Context, _ string, doc elastic.ChunkDocument) error {
	f.indexed = append(f.indexed, doc)
	return nil
}

func (f *fakeKeywords) DeleteByDocumentID(_ context.Context, _, rawDocumentID string) error {
	f.deleted = append(f.deleted, rawDocumentID)
	return nil
}

// failingEmbedder errors on any text containing the trigger word.
type failingEmbedder struct {
	trigger string
}

func (e *failingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.trigger != "" && strings.Contains(text, e.trigger) {
		return nil, fmt.Errorf("embedding backend rejected text")
	}
	return []float32{0.1, 0.2}, nil
}

func newTestService(adapter ingest.Adapter, embedder ingest.Embedder) (*ingest.Service, *fakeDocuments, *fakeChunks) {
	documents := newFakeDocuments()
	chunks := &fakeChunks{}
	service := ingest.NewService(
		ingest.NewRegistry(adapter),
		&fakePayloads{},
		documents,
		chunks,
		&fakeVectors{},
		&fakeKeywords{},
		embedder,
	)
	return service, documents, chunks
}

func TestIngestOneFailureDoesNotAbortBatch(t *testing.T) {
	adapter := &fakeAdapter{docs: []ingest.CollectedDocument{
		{Name: "good-1.txt", Path: "/d/good-1.txt", SourceType: "file", Content: "alpha content"},
		{Name: "bad.txt", Path: "/d/bad.txt", SourceType: "file", Content: "poison content"},
		{Name: "good-2.txt", Path: "/d/good-2.txt", SourceType: "file", Content: "gamma content"},
	}}
	service, _, chunks := newTestService(adapter, &failingEmbedder{trigger: "poison"})

	report, err := service.Ingest(context.Background(), "/d", chunking.Config{})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if report.Ingested != 2 || report.Failed != 1 {
		t.Fatalf("report = %d ingested, %d failed; want 2/1", report.Ingested, report.Failed)
	}
	if len(report.Documents) != 3 {
		t.Fatalf("got %d document results, want 3", len(report.Documents))
	}

	byName := map[string]ingest.DocumentResult{}
	for _, r := range report.Documents {
		byName[r.Name] = r
	}
	if byName["bad.txt"].Status != ingest.StatusFailed {
		t.Errorf("bad.txt status = %s, want failed", byName["bad.txt"].Status)
	}
	if byName["bad.txt"].Error == "" {
		t.Error("failed result carries no error")
	}
	for _, name := range []string{"good-1.txt", "good-2.txt"} {
		if byName[name].Status != ingest.StatusIngested {
			t.Errorf("%s status = %s, want ingested", name, byName[name].Status)
		}
		if byName[name].DocumentID == "" {
			t.Errorf("%s has no document id", name)
		}
	}

	for _, chunk := range chunks.created {
		if strings.Contains(chunk.Content, "poison") {
			t.Errorf("failed document left chunk rows behind: %q", chunk.Content)
		}
		if chunk.VectorID == "" {
			t.Errorf("chunk %s stored without a vector id", chunk.ChunkID)
		}
	}
}

func TestIngestSkipsDuplicateContent(t *testing.T) {
	adapter := &fakeAdapter{docs: []ingest.CollectedDocument{
		{Name: "a.txt", Path: "/d/a.txt", SourceType: "file", Content: "same content"},
		{Name: "b.txt", Path: "/d/b.txt", SourceType: "file", Content: "same content"},
	}}
	service, _, _ := newTestService(adapter, &failingEmbedder{})

	report, err := service.Ingest(context.Background(), "/d", chunking.Config{})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if report.Ingested != 1 {
		t.Errorf("ingested = %d, want 1", report.Ingested)
	}
	if report.Documents[1].Status != ingest.StatusDuplicate {
		t.Errorf("second document status = %s, want duplicate", report.Documents[1].Status)
	}
}

func TestDeleteCascades(t *testing.T) {
	adapter := &fakeAdapter{docs: []ingest.CollectedDocument{
		{Name: "a.txt", Path: "/d/a.txt", SourceType: "file", Content: "delete me later"},
	}}

	documents := newFakeDocuments()
	chunks := &fakeChunks{}
	payloads := &fakePayloads{}
	vectors := &fakeVectors{}
	keywords := &fakeKeywords{}
	service := ingest.NewService(
		ingest.NewRegistry(adapter),
		payloads,
		documents,
		chunks,
		vectors,
		keywords,
		&failingEmbedder{},
	)

	report, err := service.Ingest(context.Background(), "/d", chunking.Config{})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	docID := report.Documents[0].DocumentID

	if err := service.Delete(context.Background(), docID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(vectors.deleted) != 1 || vectors.deleted[0] != docID {
		t.Errorf("vector delete calls = %v", vectors.deleted)
	}
	if len(keywords.deleted) != 1 || keywords.deleted[0] != docID {
		t.Errorf("keyword delete calls = %v", keywords.deleted)
	}
	if len(chunks.created) != 0 {
		t.Errorf("%d chunk rows left after delete", len(chunks.created))
	}
	if len(payloads.objects) != 0 {
		t.Errorf("%d payload objects left after delete", len(payloads.objects))
	}
	if doc, _ := documents.GetByID(context.Background(), docID); doc != nil {
		t.Error("document row left after delete")
	}
}
