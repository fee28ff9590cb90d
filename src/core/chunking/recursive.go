package chunking

import (
	"strings"
	"unicode/utf8"
)

var (
	recursiveSeparators = []string{"\n\n", "\n", " ", ""}
	semanticSeparators  = []string{"\n\n", "\n", ".", "?", "!", " ", ""}
)

// characterSplitter produces size-bounded chunks from a separator
// ladder. Separators stay attached to the split that follows them, so
// concatenating the splits reconstructs the input. Sizes and overlap
// are measured in runes.
type characterSplitter struct {
	separators []string
	chunkSize  int
	overlap    int
	recurse    bool
}

// newFixedSplitter splits greedily on single newlines only. A line
// longer than the budget is emitted as one oversized chunk.
func newFixedSplitter(chunkSize, overlap int) characterSplitter {
	return characterSplitter{
		separators: []string{"\n"},
		chunkSize:  chunkSize,
		overlap:    overlap,
	}
}

// newRecursiveSplitter tries separators in ladder order and recurses
// into over-long spans with the remaining ladder, down to
// character-level splitting as a last resort.
func newRecursiveSplitter(separators []string, chunkSize, overlap int) characterSplitter {
	return characterSplitter{
		separators: separators,
		chunkSize:  chunkSize,
		overlap:    overlap,
		recurse:    true,
	}
}

func (s characterSplitter) split(text string) []string {
	return s.splitWith(text, s.separators)
}

func (s characterSplitter) splitWith(text string, separators []string) []string {
	// Pick the highest-priority separator that occurs in the text; ""
	// always applies and means rune-level splitting.
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var chunks []string
	var fitting []string
	for _, piece := range splitKeepSeparator(text, sep) {
		if utf8.RuneCountInString(piece) <= s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting)...)
			fitting = nil
		}
		if s.recurse && len(rest) > 0 {
			chunks = append(chunks, s.splitWith(piece, rest)...)
		} else {
			// Unsplittable oversized unit: emit as-is.
			chunks = append(chunks, piece)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting)...)
	}
	return chunks
}

// merge greedily packs splits into chunks within the size budget,
// seeding each new chunk with the tail of the previous one as overlap.
// The carried tail is shrunk when needed so merged chunks never exceed
// the budget; every split passed in already fits on its own.
func (s characterSplitter) merge(splits []string) []string {
	var chunks []string
	cur := ""
	for _, piece := range splits {
		if cur != "" && utf8.RuneCountInString(cur)+utf8.RuneCountInString(piece) > s.chunkSize {
			chunks = append(chunks, cur)
			keep := s.overlap
			if room := s.chunkSize - utf8.RuneCountInString(piece); keep > room {
				keep = room
			}
			cur = tailRunes(cur, keep)
		}
		cur += piece
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

// splitKeepSeparator splits text on sep, prefixing each non-initial
// part with the separator. Empty parts are dropped. An empty separator
// splits into individual runes.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[len(runes)-n:])
}
