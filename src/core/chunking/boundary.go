package chunking

import (
	"regexp"
	"strings"
)

// trailingSentencePunct matches a line ending in sentence-final
// punctuation, optionally followed by closing quotes or brackets. A
// numbered line that ends this way is a list item or a prose sentence
// that happens to start with a number, not a heading.
//
// The heuristic is deliberately simple and is kept as-is: it
// misclassifies short headings ending in abbreviations ("2. Fig.") and
// accepts list items without terminal punctuation. A smarter classifier
// belongs in a new strategy, not in a silent change here.
var trailingSentencePunct = regexp.MustCompile(`[.!?…]["'”’)\]}»]*$`)

// Boundary marks the start of a structural section.
type Boundary struct {
	Start     int
	GrammarID string
}

// SelectBoundaries decides which candidate headings are true section
// boundaries. The earliest candidate across all grammars fixes the
// grammar for the whole document (offset ties broken by grammar
// priority); only that grammar's candidates are considered, and each is
// rejected if its line ends in sentence punctuation. The very first
// candidate is always accepted: the first occurrence is what tells us
// the document uses headings at all.
func SelectBoundaries(text string, grammars []Grammar) []Boundary {
	perGrammar := ScanHeadings(text, grammars)

	chosen := -1
	first := 0
	for i, cands := range perGrammar {
		if len(cands) == 0 {
			continue
		}
		if chosen == -1 || cands[0].Start < first {
			chosen = i
			first = cands[0].Start
		}
	}
	if chosen == -1 {
		return nil
	}

	var boundaries []Boundary
	for _, cand := range perGrammar[chosen] {
		line := strings.TrimSpace(text[cand.Start:cand.End])
		if cand.Start != first && trailingSentencePunct.MatchString(line) {
			continue
		}
		boundaries = append(boundaries, Boundary{Start: cand.Start, GrammarID: cand.GrammarID})
	}
	return boundaries
}
