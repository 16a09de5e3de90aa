package captions

import (
	"fmt"
	"strings"

	"reelcap/internal/layout"
	"reelcap/internal/transcript"
)

// Chunk is a group of consecutive words shown together as one caption.
// Start and End are the bounds of the first and last word.
type Chunk struct {
	Text  string            `json:"text"`
	Words []transcript.Word `json:"words"`
	Start float64           `json:"start"`
	End   float64           `json:"end"`
}

func newChunk(words []transcript.Word) Chunk {
	owned := make([]transcript.Word, len(words))
	copy(owned, words)
	return Chunk{
		Text:  joinWords(owned),
		Words: owned,
		Start: owned[0].Start,
		End:   owned[len(owned)-1].End,
	}
}

// Split walks every word across segments in order and packs them into
// chunks that satisfy fit. A word that does not fit even on its own is
// emitted as a single word chunk so no input is dropped.
func Split(segments []transcript.Segment, fit layout.FitEvaluator) ([]Chunk, error) {
	if fit == nil {
		return nil, fmt.Errorf("captions: fit evaluator is required")
	}
	words := transcript.Words(segments)
	if len(words) == 0 {
		return nil, nil
	}

	var (
		chunks  []Chunk
		current []transcript.Word
		text    string
	)
	for _, word := range words {
		if len(current) == 0 {
			current = append(current, word)
			text = word.Text
			continue
		}
		candidate := text + " " + word.Text
		ok, err := fit.Fits(candidate)
		if err != nil {
			return nil, fmt.Errorf("captions: fit %q: %w", candidate, err)
		}
		if ok {
			current = append(current, word)
			text = candidate
			continue
		}
		chunks = append(chunks, newChunk(current))
		current = append(current[:0], word)
		text = word.Text
	}
	if len(current) > 0 {
		chunks = append(chunks, newChunk(current))
	}
	return chunks, nil
}

func joinWords(words []transcript.Word) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
	}
	return b.String()
}
