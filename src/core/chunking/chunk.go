// Package chunking splits raw documents into ordered, retrievable text
// chunks with full provenance metadata. It is a pure in-memory library:
// no I/O, no shared state, safe to call concurrently across documents.
package chunking

import "fmt"

// Document is the input record for a single chunking pass. Chunking
// never mutates it.
type Document struct {
	RawID      string
	Content    string
	SourceType string
	Path       string
	Metadata   map[string]interface{}
}

// Chunk is a contiguous unit of text derived from one document, tagged
// with ordering and provenance metadata.
type Chunk struct {
	ChunkID  string                 `json:"chunk_id"`
	RawID    string                 `json:"raw_id"`
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// assemble normalizes strategy output into canonical chunk records.
// The chunk id is derived from the raw id and the zero-based sequence
// index, so identical input and configuration always produce identical
// ids. Chunk-level metadata keys win over document metadata.
func assemble(doc Document, texts []string, strategy Strategy) []Chunk {
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(texts))
	for idx, text := range texts {
		metadata := make(map[string]interface{}, len(doc.Metadata)+4)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["chunk_index"] = idx
		metadata["source_type"] = doc.SourceType
		metadata["path"] = doc.Path
		metadata["strategy"] = string(strategy)

		chunks = append(chunks, Chunk{
			ChunkID:  fmt.Sprintf("%s_c%d", doc.RawID, idx),
			RawID:    doc.RawID,
			Text:     text,
			Metadata: metadata,
		})
	}
	return chunks
}
