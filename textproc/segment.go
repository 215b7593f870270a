package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sentence boundary: a run of terminators followed by whitespace. The
// terminator run stays attached to its sentence.
var sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)

// Segment splits text into chunks of at most maxLength characters, breaking
// only at sentence boundaries and packing consecutive sentences greedily. A
// single sentence longer than maxLength is emitted whole as its own oversized
// chunk. The returned slice is never empty, is ordered, and concatenating its
// elements preserves the sentence content of the input.
func Segment(text string, maxLength int) []string {
	if maxLength < 1 || utf8.RuneCountInString(text) <= maxLength {
		return []string{text}
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[last:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		if currentLen+n <= maxLength {
			current.WriteString(sentence)
			currentLen += n
			continue
		}
		if currentLen > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
		currentLen = n
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	if len(chunks) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return chunks
}
