package chunking

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects how a document is split into chunks.
type Strategy string

const (
	// StrategyStructure splits on detected section headings.
	StrategyStructure Strategy = "structure"
	// StrategyRecursive splits on a separator ladder (paragraph, line,
	// word, character) with size and overlap budgets.
	StrategyRecursive Strategy = "recursive"
	// StrategyFixed splits greedily on single newlines.
	StrategyFixed Strategy = "fixed"
	// StrategySemantic is the recursive splitter with sentence
	// terminators added to the separator ladder.
	StrategySemantic Strategy = "semantic"
	// StrategyParagraphOverlap groups whole paragraphs, carrying the
	// last one forward as overlap between consecutive chunks.
	StrategyParagraphOverlap Strategy = "paragraph-overlap"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	// DefaultParagraphChunkOverlap is the smaller overlap budget used
	// by the paragraph-overlap strategy, which measures overlap in
	// whole paragraphs rather than characters.
	DefaultParagraphChunkOverlap = 100
)

var (
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
	ErrInvalidConfig   = errors.New("invalid chunking configuration")
)

// ParseStrategy resolves a strategy name from configuration or an API
// request. Unknown names are rejected here so caller typos surface at
// the edge instead of silently running the default splitter.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyStructure, StrategyRecursive, StrategyFixed, StrategySemantic, StrategyParagraphOverlap:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Config carries the knobs for one chunking pass. The zero value runs
// the recursive strategy with default sizes.
type Config struct {
	Strategy     Strategy
	ChunkSize    int // soft upper bound in runes; 0 means DefaultChunkSize
	ChunkOverlap int // runes repeated across adjacent chunks
}

// DefaultConfig returns the documented defaults for a strategy.
func DefaultConfig(strategy Strategy) Config {
	overlap := DefaultChunkOverlap
	if strategy == StrategyParagraphOverlap {
		overlap = DefaultParagraphChunkOverlap
	}
	return Config{
		Strategy:     strategy,
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: overlap,
	}
}

// Split chunks one document according to cfg and returns the ordered
// chunk list. Empty or whitespace-only content yields an empty list and
// no error; only caller contract violations (negative sizes) fail.
//
// A Strategy value outside the known set runs the recursive splitter
// but is recorded as-is in chunk metadata, preserving the resilient
// per-document loop of callers that bypass ParseStrategy.
func Split(doc Document, cfg Config) ([]Chunk, error) {
	if cfg.ChunkSize < 0 || cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk_size=%d chunk_overlap=%d", ErrInvalidConfig, cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyRecursive
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	var texts []string
	switch cfg.Strategy {
	case StrategyStructure:
		texts = splitStructural(doc.Content)
	case StrategyFixed:
		texts = newFixedSplitter(cfg.ChunkSize, cfg.ChunkOverlap).split(doc.Content)
	case StrategySemantic:
		texts = newRecursiveSplitter(semanticSeparators, cfg.ChunkSize, cfg.ChunkOverlap).split(doc.Content)
	case StrategyParagraphOverlap:
		texts = splitParagraphOverlap(doc.Content, cfg.ChunkSize)
	default:
		texts = newRecursiveSplitter(recursiveSeparators, cfg.ChunkSize, cfg.ChunkOverlap).split(doc.Content)
	}

	return assemble(doc, texts, cfg.Strategy), nil
}
