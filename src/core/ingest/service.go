package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"

	"tracerag/src/core/chunking"
	"tracerag/src/infrastructure/log"
	"tracerag/src/storage/elastic"
	"tracerag/src/storage/minioctrl"
	"tracerag/src/storage/postgres/chunkctrl"
	"tracerag/src/storage/postgres/documentctrl"
	"tracerag/src/storage/weaviate"
)

// Embedder produces embedding vectors for chunk text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PayloadStore archives raw document payloads.
// *minioctrl.MinioService implements it.
type PayloadStore interface {
	EnsureBucketExists(ctx context.Context, bucketName string) error
	PutObject(ctx context.Context, bucketName, objectName string, data []byte) error
	DeleteObject(ctx context.Context, bucketName, objectName string) error
	GetBucketAndObjectFromURL(minioURL string) (string, string)
}

// DocumentStore persists raw document rows.
// *documentctrl.DocumentService implements it.
type DocumentStore interface {
	Create(ctx context.Context, name, sourceType, path, contentHash, minioURL string, metadata json.RawMessage) (*documentctrl.RawDocument, error)
	GetByID(ctx context.Context, id string) (*documentctrl.RawDocument, error)
	GetByContentHash(ctx context.Context, hash string) (*documentctrl.RawDocument, error)
	Delete(ctx context.Context, id string) error
}

// ChunkStore persists chunk rows. *chunkctrl.ChunkService implements it.
type ChunkStore interface {
	Create(ctx context.Context, rawDocumentID, chunkID string, chunkIndex int, content, vectorID string, metadata json.RawMessage) (*chunkctrl.Chunk, error)
	DeleteByDocumentID(ctx context.Context, rawDocumentID string) error
}

// VectorStore indexes chunk vectors. *weaviate.SDK implements it.
type VectorStore interface {
	EnsureSchema(ctx context.Context, className string, properties []*models.Property) error
	BatchAddVectors(ctx context.Context, className string, objects []weaviate.VectorObject) ([]string, error)
	DeleteByDocument(ctx context.Context, className, rawDocumentID string) error
}

// KeywordStore indexes chunk text for keyword search.
// *elastic.SDK implements it.
type KeywordStore interface {
	EnsureIndex(ctx context.Context, index string) error
	IndexChunk(ctx context.Context, index string, doc elastic.ChunkDocument) error
	DeleteByDocumentID(ctx context.Context, index, rawDocumentID string) error
}

// DocumentStatus says what happened to one collected document.
type DocumentStatus string

const (
	StatusIngested  DocumentStatus = "ingested"
	StatusDuplicate DocumentStatus = "duplicate"
	StatusFailed    DocumentStatus = "failed"
)

// DocumentResult is the per-document outcome of an ingestion run.
type DocumentResult struct {
	DocumentID string         `json:"document_id,omitempty"`
	Name       string         `json:"name"`
	Path       string         `json:"path"`
	Status     DocumentStatus `json:"status"`
	ChunkCount int            `json:"chunk_count"`
	Error      string         `json:"error,omitempty"`
}

// Report summarizes one ingestion run.
type Report struct {
	Source    string           `json:"source"`
	Documents []DocumentResult `json:"documents"`
	Ingested  int              `json:"ingested"`
	Failed    int              `json:"failed"`
}

// Service runs the full pipeline: collect, persist the raw payload,
// chunk, embed, and index. One failing document never aborts the run;
// it is recorded in the report and the rest continue.
type Service struct {
	registry  *Registry
	minio     PayloadStore
	documents DocumentStore
	chunks    ChunkStore
	vectors   VectorStore
	keywords  KeywordStore
	embedder  Embedder
}

func NewService(
	registry *Registry,
	minio PayloadStore,
	documents DocumentStore,
	chunks ChunkStore,
	vectors VectorStore,
	keywords KeywordStore,
	embedder Embedder,
) *Service {
	return &Service{
		registry:  registry,
		minio:     minio,
		documents: documents,
		chunks:    chunks,
		vectors:   vectors,
		keywords:  keywords,
		embedder:  embedder,
	}
}

// EnsureStores prepares the bucket, vector class, and keyword index.
func (s *Service) EnsureStores(ctx context.Context) error {
	if err := s.minio.EnsureBucketExists(ctx, minioctrl.RawDocumentsBucket); err != nil {
		return err
	}
	if err := s.vectors.EnsureSchema(ctx, weaviate.ChunkClassName, weaviate.ChunkClassProperties()); err != nil {
		return err
	}
	return s.keywords.EnsureIndex(ctx, elastic.ChunkIndex)
}

// Ingest collects documents from the source and indexes each of them.
func (s *Service) Ingest(ctx context.Context, source string, cfg chunking.Config) (*Report, error) {
	adapter, err := s.registry.Detect(source)
	if err != nil {
		return nil, err
	}

	docs, err := adapter.Collect(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to collect documents: %w", err)
	}

	if err := s.EnsureStores(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare stores: %w", err)
	}

	report := &Report{Source: source}
	for _, doc := range docs {
		result := s.ingestOne(ctx, doc, cfg)
		report.Documents = append(report.Documents, result)
		switch result.Status {
		case StatusIngested:
			report.Ingested++
		case StatusFailed:
			report.Failed++
		}
	}
	return report, nil
}

// IngestDocument runs the pipeline for one already collected document,
// bypassing source detection. Used for direct uploads.
func (s *Service) IngestDocument(ctx context.Context, doc CollectedDocument, cfg chunking.Config) (DocumentResult, error) {
	if err := s.EnsureStores(ctx); err != nil {
		return DocumentResult{}, fmt.Errorf("failed to prepare stores: %w", err)
	}
	return s.ingestOne(ctx, doc, cfg), nil
}

func (s *Service) ingestOne(ctx context.Context, doc CollectedDocument, cfg chunking.Config) DocumentResult {
	result := DocumentResult{Name: doc.Name, Path: doc.Path}

	record, chunkCount, err := s.storeDocument(ctx, doc, cfg)
	if err != nil {
		log.Error(err, "failed to ingest document", "name", doc.Name, "path", doc.Path)
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if record == nil {
		result.Status = StatusDuplicate
		return result
	}

	result.DocumentID = record.ID
	result.Status = StatusIngested
	result.ChunkCount = chunkCount
	log.Info("document ingested", "document_id", record.ID, "name", doc.Name, "chunks", chunkCount)
	return result
}

func (s *Service) storeDocument(ctx context.Context, doc CollectedDocument, cfg chunking.Config) (*documentctrl.RawDocument, int, error) {
	payload := []byte(doc.Content)
	hash := documentctrl.HashContent(payload)

	existing, err := s.documents.GetByContentHash(ctx, hash)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return nil, 0, nil
	}

	objectName := hash
	if err := s.minio.PutObject(ctx, minioctrl.RawDocumentsBucket, objectName, payload); err != nil {
		return nil, 0, err
	}

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal document metadata: %w", err)
	}

	minioURL := fmt.Sprintf("%s/%s", minioctrl.RawDocumentsBucket, objectName)
	record, err := s.documents.Create(ctx, doc.Name, doc.SourceType, doc.Path, hash, minioURL, metadata)
	if err != nil {
		return nil, 0, err
	}

	chunks, err := chunking.Split(chunking.Document{
		RawID:      record.ID,
		Content:    doc.Content,
		SourceType: doc.SourceType,
		Path:       doc.Path,
		Metadata:   doc.Metadata,
	}, cfg)
	if err != nil {
		return nil, 0, err
	}

	if err := s.indexChunks(ctx, record, chunks); err != nil {
		return nil, 0, err
	}
	return record, len(chunks), nil
}

func (s *Service) indexChunks(ctx context.Context, record *documentctrl.RawDocument, chunks []chunking.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	objects := make([]weaviate.VectorObject, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s: %w", chunk.ChunkID, err)
		}
		objects = append(objects, weaviate.VectorObject{
			Vector: vector,
			Properties: map[string]interface{}{
				"chunkId":       chunk.ChunkID,
				"rawDocumentId": record.ID,
				"content":       chunk.Text,
				"chunkIndex":    chunk.Metadata["chunk_index"],
				"sourceType":    record.SourceType,
				"path":          record.Path,
			},
		})
	}

	vectorIDs, err := s.vectors.BatchAddVectors(ctx, weaviate.ChunkClassName, objects)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		vectorID := ""
		if i < len(vectorIDs) {
			vectorID = vectorIDs[i]
		}

		index, _ := chunk.Metadata["chunk_index"].(int)
		if err := s.keywords.IndexChunk(ctx, elastic.ChunkIndex, elastic.ChunkDocument{
			ChunkID:       chunk.ChunkID,
			RawDocumentID: record.ID,
			Content:       chunk.Text,
			ChunkIndex:    index,
			SourceType:    record.SourceType,
			Path:          record.Path,
		}); err != nil {
			return err
		}

		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		if _, err := s.chunks.Create(ctx, record.ID, chunk.ChunkID, index, chunk.Text, vectorID, metadata); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one raw document and every derived artifact: chunk
// rows, vectors, keyword entries, and the stored payload.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	record, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}

	if err := s.vectors.DeleteByDocument(ctx, weaviate.ChunkClassName, record.ID); err != nil {
		return err
	}
	if err := s.keywords.DeleteByDocumentID(ctx, elastic.ChunkIndex, record.ID); err != nil {
		return err
	}

	bucket, objectName := s.minio.GetBucketAndObjectFromURL(record.MinioURL)
	if bucket != "" {
		if err := s.minio.DeleteObject(ctx, bucket, objectName); err != nil {
			return err
		}
	}

	if err := s.chunks.DeleteByDocumentID(ctx, record.ID); err != nil {
		return err
	}
	return s.documents.Delete(ctx, record.ID)
}
