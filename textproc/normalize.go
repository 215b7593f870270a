package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Runs of 2+ terminal punctuation marks collapse to the last mark of the
	// run ("?!" becomes "!").
	punctRun = regexp.MustCompile(`([!?.]){2,}`)

	spaceBeforePunct  = regexp.MustCompile(`\s+([,.!?;:])`)
	punctBeforeLetter = regexp.MustCompile(`([,.!?;:])([A-Za-z])`)
)

// Normalize prepares text for translation: any run of whitespace collapses to
// a single space, any run of repeated terminal punctuation collapses to a
// single mark, and surrounding whitespace is trimmed. Normalize is idempotent
// and returns empty input unchanged.
func Normalize(text string) string {
	if text == "" {
		return text
	}
	text = strings.Join(strings.Fields(text), " ")
	text = punctRun.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// Denormalize cleans up engine output: whitespace before punctuation is
// removed, a space is inserted after punctuation glued to a letter,
// surrounding whitespace is trimmed, and the first character is uppercased.
// Empty input is returned unchanged.
func Denormalize(text string) string {
	if text == "" {
		return text
	}
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = punctBeforeLetter.ReplaceAllString(text, "$1 $2")
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// DetectLanguage guesses the language of text from its script: Devanagari
// dominant yields "hi", Latin dominant yields "en", anything else "unknown".
func DetectLanguage(text string) string {
	if text == "" {
		return "unknown"
	}

	var devanagari, latin, total int
	for _, r := range text {
		if r == ' ' {
			continue
		}
		total++
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		default:
			if lr := unicode.ToLower(r); lr >= 'a' && lr <= 'z' {
				latin++
			}
		}
	}
	if total == 0 {
		return "unknown"
	}

	switch {
	case float64(devanagari)/float64(total) > 0.3:
		return "hi"
	case float64(latin)/float64(total) > 0.5:
		return "en"
	default:
		return "unknown"
	}
}
