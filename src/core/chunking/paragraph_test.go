package chunking_test

import (
	"strings"
	"testing"

	"tracerag/src/core/chunking"
)

func TestParagraphOverlapCarriesLastParagraph(t *testing.T) {
	a := strings.Repeat("a", 400)
	b := strings.Repeat("b", 400)
	c := strings.Repeat("c", 400)
	d := strings.Repeat("d", 400)
	content := strings.Join([]string{a, b, c, d}, "\n\n")

	texts := splitTexts(t, content, chunking.Config{
		Strategy:  chunking.StrategyParagraphOverlap,
		ChunkSize: 1000,
	})

	want := []string{
		a + "\n\n" + b,
		b + "\n\n" + c,
		c + "\n\n" + d,
	}
	if len(texts) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(texts), len(want))
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("chunk %d mismatch (len %d, want len %d)", i, len(texts[i]), len(want[i]))
		}
	}
}

func TestParagraphOverlapPageMarkersActAsBreaks(t *testing.T) {
	texts := splitTexts(t, "intro text\n[Page 2]\nsecond page text", chunking.Config{
		Strategy:  chunking.StrategyParagraphOverlap,
		ChunkSize: 1000,
	})

	if len(texts) != 1 {
		t.Fatalf("got %d chunks, want 1", len(texts))
	}
	if want := "intro text\n\nsecond page text"; texts[0] != want {
		t.Errorf("chunk = %q, want %q", texts[0], want)
	}
}

func TestParagraphOverlapNormalizesWhitespace(t *testing.T) {
	texts := splitTexts(t, "para one\n\n\n\npara   two", chunking.Config{
		Strategy:  chunking.StrategyParagraphOverlap,
		ChunkSize: 1000,
	})

	if len(texts) != 1 {
		t.Fatalf("got %d chunks, want 1", len(texts))
	}
	if want := "para one\n\npara two"; texts[0] != want {
		t.Errorf("chunk = %q, want %q", texts[0], want)
	}
}

func TestParagraphOverlapSplitsOversizedParagraphBySentence(t *testing.T) {
	texts := splitTexts(t, "Aaaa bbbb. Cccc dddd. Eeee ffff.", chunking.Config{
		Strategy:  chunking.StrategyParagraphOverlap,
		ChunkSize: 20,
	})

	want := []string{
		"Aaaa bbbb. Cccc dddd.",
		"Cccc dddd. Eeee ffff.",
	}
	if len(texts) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(texts), texts, len(want))
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestParagraphOverlapIndicesStayContiguous(t *testing.T) {
	// An oversized paragraph in the middle must not restart numbering:
	// its sentence-level sub-chunks share the document's running order.
	big := strings.Repeat("A full sentence sits right here. ", 10)
	content := "lead paragraph\n\n" + strings.TrimSpace(big) + "\n\nclosing paragraph"

	doc := chunking.Document{RawID: "doc9", Content: content, SourceType: "file", Path: "/m.txt"}
	chunks, err := chunking.Split(doc, chunking.Config{
		Strategy:  chunking.StrategyParagraphOverlap,
		ChunkSize: 100,
	})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if got := chunk.Metadata["chunk_index"]; got != i {
			t.Errorf("chunk %d has chunk_index %v", i, got)
		}
	}
}
