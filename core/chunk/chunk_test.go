package chunk

import (
	"strings"
	"testing"
)

func TestSplitKeepsShortTextWhole(t *testing.T) {
	chunks := Split("Hello there!", 80)

	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "Hello there!" {
		t.Fatalf("expected chunk %q, got %q", "Hello there!", chunks[0])
	}
}

func TestSplitPacksSentencesUpToLimit(t *testing.T) {
	chunks := Split("One. Two. Three. Four.", 10)

	expected := []string{"One. Two.", "Three.", "Four."}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d: %v", len(expected), len(chunks), chunks)
	}
	for i, chunk := range expected {
		if chunks[i] != chunk {
			t.Fatalf("expected chunk %d to be %q, got %q", i, chunk, chunks[i])
		}
	}
}

func TestSplitNeverExceedsLimitExceptSingleWords(t *testing.T) {
	text := "This is a somewhat longer sentence that cannot fit. " +
		"Another one follows it! And a third, just to be sure?"

	for _, chunk := range Split(text, 25) {
		if len([]rune(chunk)) > 25 && strings.ContainsRune(chunk, ' ') {
			t.Fatalf("chunk %q exceeds the limit and is not a single word", chunk)
		}
	}
}

func TestSplitFallsBackToWordsForOversizeSentence(t *testing.T) {
	chunks := Split("alpha beta gamma delta", 11)

	expected := []string{"alpha beta", "gamma delta"}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d: %v", len(expected), len(chunks), chunks)
	}
	for i, chunk := range expected {
		if chunks[i] != chunk {
			t.Fatalf("expected chunk %d to be %q, got %q", i, chunk, chunks[i])
		}
	}
}

func TestSplitEmitsOversizeWordWhole(t *testing.T) {
	chunks := Split("пожалуйста", 4)

	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "пожалуйста" {
		t.Fatalf("expected the word to survive whole, got %q", chunks[0])
	}
}

func TestSplitCutsAtNewlines(t *testing.T) {
	chunks := Split("First line\nSecond line", 80)

	if len(chunks) != 1 {
		t.Fatalf("expected lines to pack into one chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "First line Second line" {
		t.Fatalf("expected %q, got %q", "First line Second line", chunks[0])
	}
}

func TestSplitHandlesPunctuationRuns(t *testing.T) {
	chunks := Split("Really?! Yes... Sure.", 9)

	expected := []string{"Really?!", "Yes...", "Sure."}
	if len(chunks) != len(expected) {
		t.Fatalf("expected %d chunks, got %d: %v", len(expected), len(chunks), chunks)
	}
	for i, chunk := range expected {
		if chunks[i] != chunk {
			t.Fatalf("expected chunk %d to be %q, got %q", i, chunk, chunks[i])
		}
	}
}

func TestSplitIgnoresBlankInput(t *testing.T) {
	if chunks := Split("", 80); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %v", chunks)
	}
	if chunks := Split("   \n\n  ", 80); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %v", chunks)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	text := "Let's check. That the same input! Always yields the same chunks?"

	first := Split(text, 20)
	second := Split(text, 20)

	if len(first) != len(second) {
		t.Fatalf("expected identical chunk counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected chunk %d to match, got %q and %q", i, first[i], second[i])
		}
	}
}
