package job

import (
	"context"
	"encoding/json"
	"fmt"

	"tracerag/src/core/chunking"
	"tracerag/src/core/ingest"
	"tracerag/src/infrastructure/log"
)

const TaskTypeIngestion = "ingestion"

// IngestionPayload asks the worker to ingest one source.
type IngestionPayload struct {
	Source       string `json:"source"`
	Strategy     string `json:"strategy,omitempty"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
}

type IngestionTask struct {
	ingestService *ingest.Service
}

func NewIngestionTask(ingestService *ingest.Service) *IngestionTask {
	return &IngestionTask{
		ingestService: ingestService,
	}
}

func (t *IngestionTask) HandleIngestionTask(ctx context.Context, payload json.RawMessage) error {
	var ingestionPayload IngestionPayload
	if err := json.Unmarshal(payload, &ingestionPayload); err != nil {
		return fmt.Errorf("failed to unmarshal ingestion payload: %w", err)
	}
	if ingestionPayload.Source == "" {
		return fmt.Errorf("ingestion payload has no source")
	}

	cfg, err := ChunkingConfig(ingestionPayload.Strategy, ingestionPayload.ChunkSize, ingestionPayload.ChunkOverlap)
	if err != nil {
		return err
	}

	report, err := t.ingestService.Ingest(ctx, ingestionPayload.Source, cfg)
	if err != nil {
		return fmt.Errorf("failed to ingest source: %w", err)
	}

	log.Info("ingestion task finished",
		"source", report.Source,
		"ingested", report.Ingested,
		"failed", report.Failed,
		"documents", len(report.Documents))

	if report.Ingested == 0 && report.Failed > 0 {
		return fmt.Errorf("all %d documents failed for source %s", report.Failed, report.Source)
	}
	return nil
}

// ChunkingConfig resolves request fields into a chunking configuration,
// falling back to the strategy defaults for unset sizes.
func ChunkingConfig(strategy string, chunkSize, chunkOverlap int) (chunking.Config, error) {
	resolved := chunking.StrategyRecursive
	if strategy != "" {
		parsed, err := chunking.ParseStrategy(strategy)
		if err != nil {
			return chunking.Config{}, err
		}
		resolved = parsed
	}

	cfg := chunking.DefaultConfig(resolved)
	if chunkSize > 0 {
		cfg.ChunkSize = chunkSize
	}
	if chunkOverlap > 0 {
		cfg.ChunkOverlap = chunkOverlap
	}
	return cfg, nil
}
