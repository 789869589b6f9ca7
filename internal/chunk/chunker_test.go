package chunk

import (
	"strings"
	"testing"

	"github.com/glosa/glosa/internal/textnorm"
	"github.com/glosa/glosa/internal/tokens"
)

func TestSplit(t *testing.T) {
	est := tokens.NewHeuristic()

	t.Run("empty input yields no chunks", func(t *testing.T) {
		if got := Split("", 100, est); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := Split("Hello world.", 100, est)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].Text != "Hello world." {
			t.Errorf("unexpected chunk text %q", chunks[0].Text)
		}
	})

	t.Run("chunks stay within budget", func(t *testing.T) {
		text := "The first sentence is here. The second sentence follows it. " +
			"A third sentence arrives. The fourth one closes the paragraph."
		budget := 10
		for _, c := range Split(text, budget, est) {
			if c.Tokens > budget {
				t.Errorf("chunk %q estimate %d exceeds budget %d", c.Text, c.Tokens, budget)
			}
			if c.Text == "" {
				t.Error("emitted an empty chunk")
			}
		}
	})

	t.Run("oversized single sentence is still emitted", func(t *testing.T) {
		long := "This single sentence runs on far past any reasonable budget that the caller configured."
		chunks := Split(long, 2, est)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0].Tokens <= 2 {
			t.Errorf("expected oversized estimate, got %d", chunks[0].Tokens)
		}
		if chunks[0].Text != long {
			t.Errorf("sentence was altered: %q", chunks[0].Text)
		}
	})

	t.Run("space-joined chunks reconstruct the text", func(t *testing.T) {
		raw := "One sentence here.\nAnother  follows!   And a third?  Plus a tail"
		text := textnorm.Normalize(raw)
		for _, budget := range []int{1, 3, 5, 10, 1000} {
			chunks := Split(text, budget, est)
			var parts []string
			for _, c := range chunks {
				parts = append(parts, c.Text)
			}
			joined := textnorm.Normalize(strings.Join(parts, " "))
			if joined != text {
				t.Errorf("budget %d: reconstruction mismatch\nwant %q\ngot  %q", budget, text, joined)
			}
		}
	})

	t.Run("sentence order preserved", func(t *testing.T) {
		text := "Alpha is first. Beta is second. Gamma is third. Delta is fourth."
		chunks := Split(text, 5, est)
		joined := ""
		for _, c := range chunks {
			if joined != "" {
				joined += " "
			}
			joined += c.Text
		}
		if joined != text {
			t.Errorf("order changed:\nwant %q\ngot  %q", text, joined)
		}
	})
}
