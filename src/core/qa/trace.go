package qa

import (
	"context"
	"encoding/json"
	"fmt"

	"tracerag/src/storage/postgres/chunkctrl"
	"tracerag/src/storage/postgres/documentctrl"
)

type traceService struct {
	chunks    *chunkctrl.ChunkService
	documents *documentctrl.DocumentService
}

func NewTraceService(chunks *chunkctrl.ChunkService, documents *documentctrl.DocumentService) TraceService {
	return &traceService{
		chunks:    chunks,
		documents: documents,
	}
}

// Trace resolves a chunk id to its stored chunk, the document it came
// from, and the neighboring chunks by index.
func (s *traceService) Trace(ctx context.Context, chunkID string) (*ChunkTrace, error) {
	chunk, err := s.chunks.GetByChunkID(ctx, chunkID)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, fmt.Errorf("%w: %s", ErrChunkNotFound, chunkID)
	}

	doc, err := s.documents.GetByID(ctx, chunk.RawDocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: chunk %s has no document", ErrChunkNotFound, chunkID)
	}

	trace := &ChunkTrace{
		ChunkID:    chunk.ChunkID,
		ChunkIndex: chunk.ChunkIndex,
		Content:    chunk.Content,
		Document: TracedDocument{
			ID:         doc.ID,
			Name:       doc.Name,
			SourceType: doc.SourceType,
			Path:       doc.Path,
			CreatedAt:  doc.CreatedAt,
		},
	}

	if len(chunk.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(chunk.Metadata, &metadata); err == nil {
			trace.Metadata = metadata
		}
	}

	siblings, err := s.chunks.GetByDocumentID(ctx, chunk.RawDocumentID)
	if err != nil {
		return nil, err
	}
	for i := range siblings {
		switch siblings[i].ChunkIndex {
		case chunk.ChunkIndex - 1:
			trace.PreviousChunk = neighborOf(&siblings[i])
		case chunk.ChunkIndex + 1:
			trace.NextChunk = neighborOf(&siblings[i])
		}
	}

	return trace, nil
}

func neighborOf(chunk *chunkctrl.Chunk) *TracedNeighbor {
	return &TracedNeighbor{
		ChunkID:    chunk.ChunkID,
		ChunkIndex: chunk.ChunkIndex,
		Content:    chunk.Content,
	}
}
