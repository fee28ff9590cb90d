package qa

import (
	"context"
	"fmt"

	"tracerag/src/storage/elastic"
	"tracerag/src/storage/weaviate"
)

// Vectorizer produces query embeddings.
type Vectorizer interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type searchService struct {
	vectors    *weaviate.SDK
	keywords   *elastic.SDK
	vectorizer Vectorizer
}

func NewSearchService(vectors *weaviate.SDK, keywords *elastic.SDK, vectorizer Vectorizer) SearchService {
	return &searchService{
		vectors:    vectors,
		keywords:   keywords,
		vectorizer: vectorizer,
	}
}

var chunkFields = []string{"chunkId", "rawDocumentId", "content", "sourceType", "path"}

func (s *searchService) Search(ctx context.Context, query string, documentIDs []string, mode SearchMode, limit int) ([]SearchResultChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = weaviate.DefaultQueryLimit
	}

	switch mode {
	case SearchModeKeyword:
		return s.searchKeyword(ctx, query, documentIDs, limit)
	case SearchModeHybrid:
		return s.searchHybrid(ctx, query, documentIDs, limit)
	case SearchModeVector, "":
		return s.searchVector(ctx, query, documentIDs, limit)
	}
	return nil, fmt.Errorf("%w: unknown search mode %q", ErrInvalidRequest, mode)
}

func (s *searchService) searchVector(ctx context.Context, query string, documentIDs []string, limit int) ([]SearchResultChunk, error) {
	embedding, err := s.vectorizer.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get query embedding: %w", err)
	}

	results, err := s.vectors.QueryVectors(ctx, weaviate.ChunkClassName, embedding, weaviate.QueryConfig{
		Fields: chunkFields,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search weaviate: %w", err)
	}

	return filterResults(results, documentIDs), nil
}

func (s *searchService) searchHybrid(ctx context.Context, query string, documentIDs []string, limit int) ([]SearchResultChunk, error) {
	embedding, err := s.vectorizer.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get query embedding: %w", err)
	}

	config := weaviate.DefaultHybridConfig(query)
	config.Fields = chunkFields
	config.Limit = limit

	results, err := s.vectors.QueryHybrid(ctx, weaviate.ChunkClassName, embedding, config)
	if err != nil {
		return nil, fmt.Errorf("failed to search weaviate: %w", err)
	}

	return filterResults(results, documentIDs), nil
}

func (s *searchService) searchKeyword(ctx context.Context, query string, documentIDs []string, limit int) ([]SearchResultChunk, error) {
	hits, err := s.keywords.SearchKeyword(ctx, elastic.ChunkIndex, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search elasticsearch: %w", err)
	}

	chunks := make([]SearchResultChunk, 0, len(hits))
	for _, hit := range hits {
		if !documentAllowed(hit.RawDocumentID, documentIDs) {
			continue
		}
		chunks = append(chunks, SearchResultChunk{
			ChunkID:       hit.ChunkID,
			RawDocumentID: hit.RawDocumentID,
			Content:       hit.Content,
			Score:         hit.Score,
		})
	}
	return chunks, nil
}

// filterResults converts weaviate results to SearchResultChunks,
// keeping only the allowed documents. An empty documentIDs list allows
// everything.
func filterResults(results []weaviate.QueryResult, documentIDs []string) []SearchResultChunk {
	chunks := make([]SearchResultChunk, 0, len(results))
	for _, result := range results {
		docID, _ := result.Properties["rawDocumentId"].(string)
		if !documentAllowed(docID, documentIDs) {
			continue
		}

		chunk := SearchResultChunk{
			RawDocumentID: docID,
			Score:         result.Score,
		}
		if v, ok := result.Properties["chunkId"].(string); ok {
			chunk.ChunkID = v
		}
		if v, ok := result.Properties["content"].(string); ok {
			chunk.Content = v
		}
		if v, ok := result.Properties["sourceType"].(string); ok {
			chunk.SourceType = v
		}
		if v, ok := result.Properties["path"].(string); ok {
			chunk.Path = v
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func documentAllowed(docID string, documentIDs []string) bool {
	if len(documentIDs) == 0 {
		return true
	}
	for _, id := range documentIDs {
		if docID == id {
			return true
		}
	}
	return false
}
