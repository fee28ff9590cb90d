package chunking_test

import (
	"testing"

	"tracerag/src/core/chunking"
)

func TestStructureSplitEndToEnd(t *testing.T) {
	doc := chunking.Document{
		RawID:      "doc1",
		Content:    "Revenue grew 10%.\n\n1. Overview\nThe company did well.\n\n2. Details\nSpecifics here.",
		SourceType: "file",
		Path:       "/x.txt",
		Metadata:   map[string]interface{}{},
	}

	chunks, err := chunking.Split(doc, chunking.Config{Strategy: chunking.StrategyStructure})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	wantTexts := []string{
		"Revenue grew 10%.\n\n1. Overview\nThe company did well.",
		"2. Details\nSpecifics here.",
	}
	wantIDs := []string{"doc1_c0", "doc1_c1"}

	for i, chunk := range chunks {
		if chunk.Text != wantTexts[i] {
			t.Errorf("chunk %d text = %q, want %q", i, chunk.Text, wantTexts[i])
		}
		if chunk.ChunkID != wantIDs[i] {
			t.Errorf("chunk %d id = %q, want %q", i, chunk.ChunkID, wantIDs[i])
		}
		if chunk.RawID != "doc1" {
			t.Errorf("chunk %d raw id = %q, want doc1", i, chunk.RawID)
		}
		if got := chunk.Metadata["chunk_index"]; got != i {
			t.Errorf("chunk %d chunk_index = %v", i, got)
		}
		if got := chunk.Metadata["source_type"]; got != "file" {
			t.Errorf("chunk %d source_type = %v", i, got)
		}
		if got := chunk.Metadata["path"]; got != "/x.txt" {
			t.Errorf("chunk %d path = %v", i, got)
		}
	}
}

func TestStructureSplitNoHeadings(t *testing.T) {
	content := "A plain report.\nNo numbering at all.\nJust text."
	doc := chunking.Document{RawID: "doc2", Content: content, SourceType: "file", Path: "/p.txt"}

	chunks, err := chunking.Split(doc, chunking.Config{Strategy: chunking.StrategyStructure})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != content {
		t.Errorf("single chunk text = %q, want full content", chunks[0].Text)
	}
	if chunks[0].ChunkID != "doc2_c0" {
		t.Errorf("chunk id = %q, want doc2_c0", chunks[0].ChunkID)
	}
}

func TestStructureSplitFoldsListItemsIntoSection(t *testing.T) {
	content := "1. Introduction\ntext\n1. This is a list item.\nmore text\n2. Conclusion\nfinal words"
	doc := chunking.Document{RawID: "doc3", Content: content, SourceType: "file", Path: "/l.txt"}

	chunks, err := chunking.Split(doc, chunking.Config{Strategy: chunking.StrategyStructure})
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	if want := "1. Introduction\ntext\n1. This is a list item.\nmore text"; chunks[0].Text != want {
		t.Errorf("chunk 0 text = %q, want %q", chunks[0].Text, want)
	}
	if want := "2. Conclusion\nfinal words"; chunks[1].Text != want {
		t.Errorf("chunk 1 text = %q, want %q", chunks[1].Text, want)
	}
}
