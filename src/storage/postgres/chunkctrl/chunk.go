package chunkctrl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Chunk is the relational record for one chunk of a raw document. The
// chunk text is stored inline; VectorID points at the matching object
// in the vector store.
type Chunk struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	RawDocumentID string          `gorm:"not null;column:raw_document_id;index" json:"raw_document_id"`
	ChunkID       string          `gorm:"not null;uniqueIndex" json:"chunk_id"`
	ChunkIndex    int             `gorm:"not null;column:chunk_index" json:"chunk_index"`
	Content       string          `gorm:"not null" json:"content"`
	VectorID      string          `gorm:"column:vector_id" json:"vector_id"`
	Metadata      json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ChunkService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewChunkService(db *gorm.DB) (*ChunkService, error) {
	// Node number 2 for chunks
	node, err := snowflake.NewNode(2)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &ChunkService{
		db:        db,
		snowflake: node,
	}, nil
}

func (s *ChunkService) Create(ctx context.Context, rawDocumentID, chunkID string, chunkIndex int, content, vectorID string, metadata json.RawMessage) (*Chunk, error) {
	chunk := &Chunk{
		ID:            s.snowflake.Generate().Int64(),
		RawDocumentID: rawDocumentID,
		ChunkID:       chunkID,
		ChunkIndex:    chunkIndex,
		Content:       content,
		VectorID:      vectorID,
		Metadata:      metadata,
	}

	result := s.db.WithContext(ctx).Create(chunk)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create chunk: %v", result.Error)
	}

	return chunk, nil
}

func (s *ChunkService) GetByDocumentID(ctx context.Context, rawDocumentID string) ([]Chunk, error) {
	var chunks []Chunk
	result := s.db.WithContext(ctx).
		Where("raw_document_id = ?", rawDocumentID).
		Order("chunk_index asc").
		Find(&chunks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get chunks: %v", result.Error)
	}
	return chunks, nil
}

func (s *ChunkService) GetByChunkID(ctx context.Context, chunkID string) (*Chunk, error) {
	var chunk Chunk
	result := s.db.WithContext(ctx).Where("chunk_id = ?", chunkID).First(&chunk)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chunk: %v", result.Error)
	}
	return &chunk, nil
}

func (s *ChunkService) DeleteByDocumentID(ctx context.Context, rawDocumentID string) error {
	result := s.db.WithContext(ctx).Where("raw_document_id = ?", rawDocumentID).Delete(&Chunk{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete chunks: %v", result.Error)
	}
	return nil
}

func (s *ChunkService) CountByDocumentID(ctx context.Context, rawDocumentID string) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&Chunk{}).Where("raw_document_id = ?", rawDocumentID).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count chunks: %v", result.Error)
	}
	return count, nil
}
