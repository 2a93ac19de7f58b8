package sagemaker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextPacksWholeSentences(t *testing.T) {
	text := "Alpha alpha. Bravo bravo. Charlie charlie."
	got := splitText(text, 20)

	want := []string{"Alpha alpha.", "Bravo bravo.", "Charlie charlie."}
	if len(got) != len(want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitTextMergesShortSentences(t *testing.T) {
	text := "One. Two. Three. Four."
	got := splitText(text, 12)

	// "One. Two. " is 10 runes; adding "Three. " would exceed 12,
	// while "Three. Four." fits exactly.
	want := []string{"One. Two.", "Three. Four."}
	if len(got) != len(want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitTextNeverExceedsLimit(t *testing.T) {
	text := strings.Repeat("A reasonably sized sentence here. ", 40)
	const limit = 60

	for i, seg := range splitText(text, limit) {
		if n := utf8.RuneCountInString(seg); n > limit {
			t.Errorf("segment %d has %d runes, limit %d", i, n, limit)
		}
		if strings.TrimSpace(seg) == "" {
			t.Errorf("segment %d is empty", i)
		}
	}
}

func TestSplitTextHardSplitsOversizedSentence(t *testing.T) {
	text := strings.Repeat("x", 25) // no sentence boundary at all
	got := splitText(text, 10)

	want := []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}
	if len(got) != len(want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitTextCJKPunctuation(t *testing.T) {
	text := "你好世界。今天天气很好！我们出去走走？"
	got := splitText(text, 8)

	want := []string{"你好世界。", "今天天气很好！", "我们出去走走？"}
	if len(got) != len(want) {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitTextKeepsClosingQuoteWithSentence(t *testing.T) {
	text := `"Stop there!" she said. Nothing moved.`
	got := splitText(text, 25)

	// The closing quote belongs to the first sentence, so the first
	// segment ends with the quoted exclamation rather than splitting
	// inside the quotation.
	if got[0] != `"Stop there!" she said.` {
		t.Errorf("segment 0 = %q, want %q", got[0], `"Stop there!" she said.`)
	}
}

func TestSplitSentencesReassembles(t *testing.T) {
	text := "First one. Second one! Third one? Tail without terminator"
	var joined strings.Builder
	for _, s := range splitSentences(text) {
		joined.WriteString(s)
	}
	if joined.String() != text {
		t.Errorf("reassembled = %q, want %q", joined.String(), text)
	}
}
