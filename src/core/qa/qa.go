// Package qa answers questions over the ingested corpus: retrieval,
// retrieval-augmented chat, chunk provenance, and health reporting.
package qa

import (
	"context"
	"errors"
	"time"
)

var (
	ErrChunkNotFound  = errors.New("chunk not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// SearchMode selects how chunks are retrieved.
type SearchMode string

const (
	SearchModeVector  SearchMode = "vector"
	SearchModeHybrid  SearchMode = "hybrid"
	SearchModeKeyword SearchMode = "keyword"
)

// SearchService defines the interface for retrieval operations
type SearchService interface {
	Search(ctx context.Context, query string, documentIDs []string, mode SearchMode, limit int) ([]SearchResultChunk, error)
}

// ChatService defines the interface for chat operations
type ChatService interface {
	GenerateCompletion(ctx context.Context, sessionID string, documentIDs []string, question string) (*ChatMessage, error)
	GetHistory(ctx context.Context, sessionID string) ([]ChatMessage, error)
}

// TraceService resolves a chunk back to its source document
type TraceService interface {
	Trace(ctx context.Context, chunkID string) (*ChunkTrace, error)
}

// SystemService defines the interface for system operations
type SystemService interface {
	CheckHealth(ctx context.Context) (*HealthStatus, error)
}

// SearchResultChunk represents a single chunk in search results
type SearchResultChunk struct {
	ChunkID       string  `json:"chunkId"`
	RawDocumentID string  `json:"rawDocumentId"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	SourceType    string  `json:"sourceType,omitempty"`
	Path          string  `json:"path,omitempty"`
}

// ChatMessage represents a message in chat history
type ChatMessage struct {
	SessionID string    `json:"sessionId"`
	MessageID string    `json:"messageId"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChunkTrace links a chunk to its document and index neighbors.
type ChunkTrace struct {
	ChunkID       string                 `json:"chunkId"`
	ChunkIndex    int                    `json:"chunkIndex"`
	Content       string                 `json:"content"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Document      TracedDocument         `json:"document"`
	PreviousChunk *TracedNeighbor        `json:"previousChunk,omitempty"`
	NextChunk     *TracedNeighbor        `json:"nextChunk,omitempty"`
}

// TracedDocument is the document side of a chunk trace.
type TracedDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceType string    `json:"sourceType"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TracedNeighbor is an adjacent chunk of the same document.
type TracedNeighbor struct {
	ChunkID    string `json:"chunkId"`
	ChunkIndex int    `json:"chunkIndex"`
	Content    string `json:"content"`
}

// ComponentStatus represents the status of system components
type ComponentStatus string

const (
	StatusUp   ComponentStatus = "up"
	StatusDown ComponentStatus = "down"
)

// HealthStatus represents system health status
type HealthStatus struct {
	Status     string `json:"status"`
	Components struct {
		Postgres ComponentStatus `json:"postgres"`
		Weaviate ComponentStatus `json:"weaviate"`
		Elastic  ComponentStatus `json:"elastic"`
		Ollama   ComponentStatus `json:"ollama"`
	} `json:"components"`
}
