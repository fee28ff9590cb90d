package chunking_test

import (
	"strings"
	"testing"

	"tracerag/src/core/chunking"
)

func TestSelectBoundariesFirstCandidateAlwaysAccepted(t *testing.T) {
	text := "1. Introduction\ntext\n1. This is a list item.\nmore text\n2. Conclusion\nwrap up"

	boundaries := chunking.SelectBoundaries(text, chunking.DefaultGrammars)
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2", len(boundaries))
	}
	if boundaries[0].Start != 0 {
		t.Errorf("first boundary start = %d, want 0", boundaries[0].Start)
	}
	if want := strings.Index(text, "2. Conclusion"); boundaries[1].Start != want {
		t.Errorf("second boundary start = %d, want %d", boundaries[1].Start, want)
	}
}

func TestSelectBoundariesRejectsSentenceLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int // boundaries besides the initial heading
	}{
		{name: "terminal period", line: "2. Buy milk.", want: 0},
		{name: "terminal question mark", line: "2. Why would it?", want: 0},
		{name: "period plus closing quote", line: "2. He said \"done.\"", want: 0},
		{name: "period plus closing bracket", line: "2. See item (a).", want: 0},
		{name: "no terminal punctuation", line: "2. Background", want: 1},
		// Known false negative of the heuristic, preserved on purpose:
		// an abbreviation heading is treated as a sentence.
		{name: "abbreviation heading", line: "2. Fig.", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "1. Overview\nbody text\n" + tt.line + "\ntrailing text"
			boundaries := chunking.SelectBoundaries(text, chunking.DefaultGrammars)
			if got := len(boundaries) - 1; got != tt.want {
				t.Errorf("got %d extra boundaries, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectBoundariesNoCandidates(t *testing.T) {
	text := "just prose here\nnothing that looks like a heading\n"
	if boundaries := chunking.SelectBoundaries(text, chunking.DefaultGrammars); boundaries != nil {
		t.Errorf("got %d boundaries, want none", len(boundaries))
	}
}

func TestSelectBoundariesSingleGrammarPerDocument(t *testing.T) {
	// Decimal appears first, so the markdown heading must not become a
	// boundary even though its grammar matched.
	text := "1. First\nintro\n# Markdown heading\n2. Second\nend"

	boundaries := chunking.SelectBoundaries(text, chunking.DefaultGrammars)
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2", len(boundaries))
	}
	for _, b := range boundaries {
		if b.GrammarID != "decimal" {
			t.Errorf("boundary grammar = %s, want decimal", b.GrammarID)
		}
	}
}

func TestSelectBoundariesTieBrokenByGrammarPriority(t *testing.T) {
	// "I. Alpha" matches both the roman and the single-letter grammar
	// at offset zero; roman has higher priority.
	text := "I. Alpha\nsome text\nII. Beta\nmore text"

	boundaries := chunking.SelectBoundaries(text, chunking.DefaultGrammars)
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2", len(boundaries))
	}
	if boundaries[0].GrammarID != "roman" {
		t.Errorf("chosen grammar = %s, want roman", boundaries[0].GrammarID)
	}
}
