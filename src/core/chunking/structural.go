package chunking

import "strings"

// splitStructural splits content into sections at accepted heading
// boundaries. Section i spans boundary i to boundary i+1; the last
// section runs to end of document. Text before the first boundary is
// prepended to the first section rather than emitted on its own. A
// document with no boundaries becomes a single chunk holding the full
// content, unchanged.
//
// Sections are not re-split by size: structural chunks may be
// arbitrarily large or small.
func splitStructural(content string) []string {
	boundaries := SelectBoundaries(content, DefaultGrammars)
	if len(boundaries) == 0 {
		return []string{content}
	}

	sections := make([]string, 0, len(boundaries))
	for i, b := range boundaries {
		end := len(content)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].Start
		}
		sections = append(sections, strings.TrimSpace(content[b.Start:end]))
	}

	if preamble := strings.TrimSpace(content[:boundaries[0].Start]); preamble != "" {
		sections[0] = preamble + "\n\n" + sections[0]
	}
	return sections
}
