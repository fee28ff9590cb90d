package qa

import (
	"context"

	"gorm.io/gorm"

	"tracerag/src/infrastructure/integrations/ollama"
	"tracerag/src/storage/elastic"
	"tracerag/src/storage/weaviate"
)

type systemService struct {
	db       *gorm.DB
	vectors  *weaviate.SDK
	keywords *elastic.SDK
	ollama   *ollama.Client
}

func NewSystemService(db *gorm.DB, vectors *weaviate.SDK, keywords *elastic.SDK, ollamaClient *ollama.Client) SystemService {
	return &systemService{
		db:       db,
		vectors:  vectors,
		keywords: keywords,
		ollama:   ollamaClient,
	}
}

func (s *systemService) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{Status: "healthy"}
	status.Components.Postgres = StatusDown
	status.Components.Weaviate = StatusDown
	status.Components.Elastic = StatusDown
	status.Components.Ollama = StatusDown

	// Check Postgres
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err == nil {
			status.Components.Postgres = StatusUp
		}
	}

	// Check Weaviate
	if _, err := s.vectors.QueryVectors(ctx, weaviate.ChunkClassName, nil, weaviate.QueryConfig{Limit: 1}); err == nil {
		status.Components.Weaviate = StatusUp
	}

	// Check Elasticsearch
	if err := s.keywords.Ping(ctx); err == nil {
		status.Components.Elastic = StatusUp
	}

	// Check Ollama
	if _, err := s.ollama.Models(ctx); err == nil {
		status.Components.Ollama = StatusUp
	}

	if status.Components.Postgres == StatusDown ||
		status.Components.Weaviate == StatusDown ||
		status.Components.Elastic == StatusDown ||
		status.Components.Ollama == StatusDown {
		status.Status = "unhealthy"
	}

	return status, nil
}
