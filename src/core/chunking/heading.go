package chunking

import "regexp"

// Grammar is one heading pattern family recognizing a section-numbering
// convention. Patterns are compiled with (?m) so every match is
// anchored to a line start, and stdlib RE2 keeps matching linear-time
// on adversarial input.
type Grammar struct {
	ID      string
	Pattern *regexp.Regexp
}

// DefaultGrammars in priority order: when two grammars match at the
// same earliest offset, the one listed first wins the document.
var DefaultGrammars = []Grammar{
	// 1. Title
	{ID: "decimal", Pattern: regexp.MustCompile(`(?m)^\d{1,3}\.[ \t]+\S.{0,199}$`)},
	// 1.2.3 Title (1 to 4 sublevels, trailing period optional)
	{ID: "outline", Pattern: regexp.MustCompile(`(?m)^\d{1,3}(?:\.\d{1,3}){1,4}\.?[ \t]+\S.{0,199}$`)},
	// 1) Title
	{ID: "paren", Pattern: regexp.MustCompile(`(?m)^\d{1,3}\)[ \t]+\S.{0,199}$`)},
	// IV. Title (period optional)
	{ID: "roman", Pattern: regexp.MustCompile(`(?m)^(?:X{1,3}|X{0,3}(?:IX|IV|V?I{1,3}|V))\.?[ \t]+\S.{0,199}$`)},
	// A. Title
	{ID: "letter", Pattern: regexp.MustCompile(`(?m)^[A-Z]\.[ \t]+\S.{0,199}$`)},
	// # Title through ###### Title
	{ID: "markdown", Pattern: regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S.*$`)},
}

// Candidate is one potential heading occurrence: a line that matched a
// grammar, before any boundary decision is made.
type Candidate struct {
	GrammarID string
	Start     int
	End       int
}

// ScanHeadings enumerates candidate heading lines for each grammar over
// the full document text. Pure and deterministic: the same text and
// grammar set always yield the same candidates, in document order per
// grammar. The result slice is parallel to grammars.
func ScanHeadings(text string, grammars []Grammar) [][]Candidate {
	out := make([][]Candidate, len(grammars))
	for i, g := range grammars {
		locs := g.Pattern.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		cands := make([]Candidate, 0, len(locs))
		for _, loc := range locs {
			cands = append(cands, Candidate{GrammarID: g.ID, Start: loc[0], End: loc[1]})
		}
		out[i] = cands
	}
	return out
}
