package documentctrl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RawDocument is the canonical record for one ingested source document.
// The content itself lives in object storage; MinioURL points at it.
type RawDocument struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	SourceType  string          `gorm:"not null;column:source_type" json:"source_type"`
	Path        string          `gorm:"not null" json:"path"`
	ContentHash string          `gorm:"not null;column:content_hash" json:"content_hash"`
	MinioURL    string          `gorm:"not null;column:minio_url" json:"minio_url"` // bucket name + object name
	Metadata    json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	return &DocumentService{db: db}, nil
}

// HashContent returns the hex sha256 digest used for duplicate detection.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (s *DocumentService) Create(ctx context.Context, name, sourceType, path, contentHash, minioURL string, metadata json.RawMessage) (*RawDocument, error) {
	doc := &RawDocument{
		ID:          uuid.New().String(),
		Name:        name,
		SourceType:  sourceType,
		Path:        path,
		ContentHash: contentHash,
		MinioURL:    minioURL,
		Metadata:    metadata,
	}

	result := s.db.WithContext(ctx).Create(doc)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create raw document: %v", result.Error)
	}

	return doc, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id string) (*RawDocument, error) {
	var doc RawDocument
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&doc)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get raw document: %v", result.Error)
	}
	return &doc, nil
}

// GetByContentHash finds an already ingested document with identical
// content, regardless of where it came from.
func (s *DocumentService) GetByContentHash(ctx context.Context, hash string) (*RawDocument, error) {
	var doc RawDocument
	result := s.db.WithContext(ctx).Where("content_hash = ?", hash).First(&doc)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get raw document by hash: %v", result.Error)
	}
	return &doc, nil
}

func (s *DocumentService) List(ctx context.Context, offset, limit int) ([]RawDocument, error) {
	var docs []RawDocument
	result := s.db.WithContext(ctx).Order("created_at desc").Offset(offset).Limit(limit).Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list raw documents: %v", result.Error)
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&RawDocument{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete raw document: %v", result.Error)
	}
	return nil
}
