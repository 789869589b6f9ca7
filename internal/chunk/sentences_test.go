package chunk

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	t.Run("splits on terminal punctuation", func(t *testing.T) {
		got := SplitSentences("First one. Second one! Third one?")
		want := []string{"First one.", "Second one!", "Third one?"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("keeps abbreviations together", func(t *testing.T) {
		got := SplitSentences("Dr. Smith arrived. He sat down.")
		want := []string{"Dr. Smith arrived.", "He sat down."}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("keeps decimals together", func(t *testing.T) {
		got := SplitSentences("It costs 3.50 dollars. Cheap.")
		want := []string{"It costs 3.50 dollars.", "Cheap."}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("keeps initials together", func(t *testing.T) {
		got := SplitSentences("J. R. Tolkien wrote it. Everyone read it.")
		want := []string{"J. R. Tolkien wrote it.", "Everyone read it."}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("requires a sentence-start after the boundary", func(t *testing.T) {
		got := SplitSentences("See fig. 2 for details. the end is lowercase so no split")
		if len(got) != 1 {
			t.Errorf("expected 1 sentence, got %d: %v", len(got), got)
		}
	})

	t.Run("boundary followed by quote", func(t *testing.T) {
		got := SplitSentences(`He left. "Wait," she said.`)
		want := []string{"He left.", `"Wait," she said.`}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("unterminated tail is its own sentence", func(t *testing.T) {
		got := SplitSentences("Done. And then some trailing words")
		want := []string{"Done.", "And then some trailing words"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := SplitSentences(""); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
		if got := SplitSentences("   "); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
