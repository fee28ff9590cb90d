package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ChunkIndex is the keyword index holding all chunk text.
const ChunkIndex = "document-chunks"

const chunkMapping = `{
  "mappings": {
    "properties": {
      "chunk_id":        { "type": "keyword" },
      "raw_document_id": { "type": "keyword" },
      "content":         { "type": "text" },
      "chunk_index":     { "type": "integer" },
      "source_type":     { "type": "keyword" },
      "path":            { "type": "keyword" }
    }
  }
}`

// SDK encapsulates the Elasticsearch operations used for keyword search.
type SDK struct {
	client *elasticsearch.Client
}

func NewSDK(client *elasticsearch.Client) *SDK {
	return &SDK{client: client}
}

// EnsureIndex creates the chunk index with its mapping if missing.
func (s *SDK) EnsureIndex(ctx context.Context, index string) error {
	res, err := s.client.Indices.Exists(
		[]string{index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := s.client.Indices.Create(
		index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(chunkMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}
	return nil
}

// ChunkDocument is the indexed form of one chunk.
type ChunkDocument struct {
	ChunkID       string `json:"chunk_id"`
	RawDocumentID string `json:"raw_document_id"`
	Content       string `json:"content"`
	ChunkIndex    int    `json:"chunk_index"`
	SourceType    string `json:"source_type"`
	Path          string `json:"path"`
}

// IndexChunk upserts one chunk into the keyword index, keyed by chunk id.
func (s *SDK) IndexChunk(ctx context.Context, index string, doc ChunkDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk document: %v", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: doc.ChunkID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to index chunk: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index chunk: %s", res.String())
	}
	return nil
}

// KeywordHit is one keyword search match.
type KeywordHit struct {
	ChunkID       string
	RawDocumentID string
	Content       string
	Score         float64
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64       `json:"_score"`
			Source ChunkDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchKeyword runs a full-text match query over chunk content.
func (s *SDK) SearchKeyword(ctx context.Context, index, query string, limit int) ([]KeywordHit, error) {
	if limit <= 0 {
		limit = 20
	}

	searchBody := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": query,
			},
		},
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %v", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to search index: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	hits := make([]KeywordHit, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, KeywordHit{
			ChunkID:       hit.Source.ChunkID,
			RawDocumentID: hit.Source.RawDocumentID,
			Content:       hit.Source.Content,
			Score:         hit.Score,
		})
	}
	return hits, nil
}

// DeleteByDocumentID removes every indexed chunk of one raw document.
func (s *SDK) DeleteByDocumentID(ctx context.Context, index, rawDocumentID string) error {
	body := fmt.Sprintf(`{"query":{"term":{"raw_document_id":%q}}}`, rawDocumentID)

	res, err := s.client.DeleteByQuery(
		[]string{index},
		strings.NewReader(body),
		s.client.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunks from index: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to delete chunks from index: %s", res.String())
	}
	return nil
}

// Ping reports whether the cluster answers.
func (s *SDK) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch unhealthy: %s", res.String())
	}
	return nil
}
