// Package tokens estimates the token cost of text spans. Chunk fitting depends
// on these estimates being deterministic: the same string must always yield the
// same count within a run.
package tokens

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE scheme used for chunk fitting. It is independent
// of whatever tokenizer the translation backend runs internally.
const DefaultEncoding = "cl100k_base"

// Estimator reports a non-negative token estimate for a text span.
type Estimator interface {
	Count(text string) int
}

// Tiktoken estimates token counts with a real BPE encoding.
type Tiktoken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding. Loading can fail when the encoding
// data is unavailable (for example, offline with no cache); callers should
// fall back to NewHeuristic in that case.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", encoding, err)
	}
	return &Tiktoken{encoding: encoding, tke: tke}, nil
}

// Count returns the number of BPE tokens in text.
func (e *Tiktoken) Count(text string) int {
	return len(e.tke.Encode(text, nil, nil))
}

// Encoding returns the encoding name this estimator was built with.
func (e *Tiktoken) Encoding() string {
	return e.encoding
}

// Heuristic approximates token counts without encoding data: one token per
// four runes, minimum one for non-empty text. Biased high for CJK-heavy text,
// close enough for Latin scripts.
type Heuristic struct{}

// NewHeuristic returns a rune-count based estimator.
func NewHeuristic() Heuristic {
	return Heuristic{}
}

// Count returns the approximate token count for text.
func (Heuristic) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}
