package chunking

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	excessSpaces   = regexp.MustCompile(` {2,}`)
	paragraphBreak = regexp.MustCompile(`\n\n+|\[Page \d+\]\n`)
	sentenceEnd    = regexp.MustCompile(`[.!?]\s+`)
)

// splitParagraphOverlap groups whole paragraphs into chunks bounded by
// chunkSize, carrying the last paragraph of each flushed chunk into the
// next one as overlap context. A single paragraph larger than the
// budget is split by sentences on its own, with the last sentence
// carried between its sub-chunks. All chunks share one running order,
// so indices stay contiguous for the document.
func splitParagraphOverlap(content string, chunkSize int) []string {
	paragraphs := splitParagraphs(normalizeText(content))

	var chunks []string
	var current []string
	currentSize := 0

	for _, para := range paragraphs {
		paraSize := utf8.RuneCountInString(para)

		if paraSize > chunkSize {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, "\n\n"))
				current = nil
				currentSize = 0
			}
			chunks = append(chunks, splitLargeParagraph(para, chunkSize)...)
			continue
		}

		if currentSize+paraSize > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			overlap := current[len(current)-1]
			current = []string{overlap}
			currentSize = utf8.RuneCountInString(overlap)
		}

		current = append(current, para)
		currentSize += paraSize
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}

// splitLargeParagraph applies the same greedy accumulation at sentence
// granularity, joining with single spaces.
func splitLargeParagraph(paragraph string, chunkSize int) []string {
	var chunks []string
	var current []string
	currentSize := 0

	for _, sentence := range splitSentences(paragraph) {
		sentenceSize := utf8.RuneCountInString(sentence)

		if currentSize+sentenceSize > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			last := current[len(current)-1]
			current = []string{last}
			currentSize = utf8.RuneCountInString(last)
		}

		current = append(current, sentence)
		currentSize += sentenceSize
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// normalizeText collapses runs of 3+ newlines to a blank line and runs
// of 2+ spaces to one space.
func normalizeText(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = excessSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitParagraphs splits on blank lines and [Page N] markers, dropping
// empty paragraphs.
func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, p := range paragraphBreak.Split(content, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitSentences splits after sentence-final punctuation followed by
// whitespace. The punctuation stays with the preceding sentence; the
// whitespace is consumed.
func splitSentences(paragraph string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(paragraph, -1) {
		out = append(out, paragraph[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(paragraph) {
		out = append(out, paragraph[last:])
	}
	return out
}
