// Package chunk splits paragraph text into sentence-aligned chunks that fit a
// token budget. Sentences are never split: a single sentence whose own estimate
// exceeds the budget is still emitted as its own chunk rather than dropped,
// so a chunk's estimate can exceed the nominal budget in that one case.
package chunk

import "github.com/glosa/glosa/internal/tokens"

// Chunk is a contiguous, sentence-aligned span of a paragraph together with
// its estimated token cost.
type Chunk struct {
	Text   string
	Tokens int
}

// Split segments normalized text into ordered chunks, greedily accumulating
// sentences until adding the next one would push the running estimate over
// maxTokens. Empty input yields nil. Joining the returned chunk texts with
// single spaces reconstructs the input.
func Split(text string, maxTokens int, est tokens.Estimator) []Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current string
	currentTokens := 0

	flush := func() {
		if current != "" {
			chunks = append(chunks, Chunk{Text: current, Tokens: currentTokens})
			current = ""
			currentTokens = 0
		}
	}

	for _, sentence := range sentences {
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		candidateTokens := est.Count(candidate)

		if current != "" && candidateTokens > maxTokens {
			flush()
			candidate = sentence
			candidateTokens = est.Count(sentence)
		}

		current = candidate
		currentTokens = candidateTokens
	}
	flush()

	return chunks
}
