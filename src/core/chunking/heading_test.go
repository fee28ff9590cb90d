package chunking_test

import (
	"reflect"
	"strings"
	"testing"

	"tracerag/src/core/chunking"
)

func candidatesByGrammar(text string) map[string][]chunking.Candidate {
	out := make(map[string][]chunking.Candidate)
	for i, cands := range chunking.ScanHeadings(text, chunking.DefaultGrammars) {
		out[chunking.DefaultGrammars[i].ID] = cands
	}
	return out
}

func TestScanHeadings(t *testing.T) {
	text := "intro line\n" +
		"1. Decimal heading\n" +
		"1.2 Outline heading\n" +
		"3) Parenthesized heading\n" +
		"IV. Roman heading\n" +
		"A. Letter heading\n" +
		"## Markdown heading\n" +
		"not a heading\n"

	byGrammar := candidatesByGrammar(text)

	wantCounts := map[string]int{
		"decimal":  1,
		"outline":  1,
		"paren":    1,
		"roman":    1,
		"letter":   1,
		"markdown": 1,
	}

	for id, want := range wantCounts {
		if got := len(byGrammar[id]); got != want {
			t.Errorf("grammar %s: got %d candidates, want %d", id, got, want)
		}
	}

	if cands := byGrammar["decimal"]; len(cands) == 1 {
		wantStart := strings.Index(text, "1. Decimal heading")
		if cands[0].Start != wantStart {
			t.Errorf("decimal candidate start = %d, want %d", cands[0].Start, wantStart)
		}
		if got := text[cands[0].Start:cands[0].End]; got != "1. Decimal heading" {
			t.Errorf("decimal candidate span = %q", got)
		}
	}
}

func TestScanHeadingsTitleLengthCap(t *testing.T) {
	long := "1. " + strings.Repeat("x", 250)
	short := "1. " + strings.Repeat("x", 150)

	if got := len(candidatesByGrammar(long)["decimal"]); got != 0 {
		t.Errorf("over-long title: got %d decimal candidates, want 0", got)
	}
	if got := len(candidatesByGrammar(short)["decimal"]); got != 1 {
		t.Errorf("short title: got %d decimal candidates, want 1", got)
	}
}

func TestScanHeadingsDeterministic(t *testing.T) {
	text := "1. One\nbody\n2. Two\nbody\n# Three\n"
	first := chunking.ScanHeadings(text, chunking.DefaultGrammars)
	second := chunking.ScanHeadings(text, chunking.DefaultGrammars)
	if !reflect.DeepEqual(first, second) {
		t.Error("ScanHeadings is not deterministic for identical input")
	}
}
