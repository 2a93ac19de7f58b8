package sagemaker

import (
	"strings"
	"unicode"
)

// Sentence terminators recognized by the splitter. Both ASCII and
// full-width CJK punctuation end a sentence.
var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true, ';': true,
	'。': true, '！': true, '？': true, '；': true,
}

// Characters allowed to trail a terminator and still belong to the
// same sentence (closing quotes and brackets).
var sentenceClosers = map[rune]bool{
	'"': true, '\'': true, ')': true, ']': true,
	'”': true, '’': true, '」': true, '』': true, '）': true,
}

// splitSentences splits text into sentences, each including its
// terminator, any closing punctuation, and trailing whitespace.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !sentenceEnders[runes[i]] {
			continue
		}
		j := i + 1
		for j < len(runes) && (sentenceClosers[runes[j]] || unicode.IsSpace(runes[j])) {
			j++
		}
		out = append(out, string(runes[start:j]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// splitText packs whole sentences greedily into segments of at most
// maxLen runes. A single sentence longer than maxLen is hard-split at
// maxLen boundaries; sentences are otherwise never split. Segments are
// trimmed of surrounding whitespace and never empty.
func splitText(text string, maxLen int) []string {
	if maxLen <= 0 {
		return []string{text}
	}

	var segments []string
	var current []rune
	flush := func() {
		if seg := strings.TrimSpace(string(current)); seg != "" {
			segments = append(segments, seg)
		}
		current = nil
	}

	for _, sentence := range splitSentences(text) {
		runes := []rune(sentence)
		switch {
		case len(runes) > maxLen:
			flush()
			for len(runes) > maxLen {
				if seg := strings.TrimSpace(string(runes[:maxLen])); seg != "" {
					segments = append(segments, seg)
				}
				runes = runes[maxLen:]
			}
			current = runes
		case len(current)+len(runes) > maxLen:
			flush()
			current = runes
		default:
			current = append(current, runes...)
		}
	}
	flush()

	if len(segments) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return segments
}
