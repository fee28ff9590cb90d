package job_test

import (
	"errors"
	"testing"

	"tracerag/src/core/chunking"
	"tracerag/src/infrastructure/job"
)

func TestChunkingConfig(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		size     int
		overlap  int
		want     chunking.Config
	}{
		{
			name: "empty strategy falls back to recursive defaults",
			want: chunking.Config{
				Strategy:     chunking.StrategyRecursive,
				ChunkSize:    chunking.DefaultChunkSize,
				ChunkOverlap: chunking.DefaultChunkOverlap,
			},
		},
		{
			name:     "paragraph overlap uses its smaller default overlap",
			strategy: "paragraph-overlap",
			want: chunking.Config{
				Strategy:     chunking.StrategyParagraphOverlap,
				ChunkSize:    chunking.DefaultChunkSize,
				ChunkOverlap: chunking.DefaultParagraphChunkOverlap,
			},
		},
		{
			name:     "explicit sizes override the defaults",
			strategy: "semantic",
			size:     500,
			overlap:  50,
			want: chunking.Config{
				Strategy:     chunking.StrategySemantic,
				ChunkSize:    500,
				ChunkOverlap: 50,
			},
		},
		{
			name:     "zero sizes keep the defaults",
			strategy: "fixed",
			want: chunking.Config{
				Strategy:     chunking.StrategyFixed,
				ChunkSize:    chunking.DefaultChunkSize,
				ChunkOverlap: chunking.DefaultChunkOverlap,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := job.ChunkingConfig(tt.strategy, tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("ChunkingConfig returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChunkingConfigUnknownStrategy(t *testing.T) {
	if _, err := job.ChunkingConfig("by-vibes", 0, 0); !errors.Is(err, chunking.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}
