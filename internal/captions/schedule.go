package captions

// NoHighlight marks a SubCaption that emphasizes no word.
const NoHighlight = -1

// SubCaption is one timing window of a chunk. Text is always the full chunk
// text; HighlightIndex selects the emphasized word or is NoHighlight.
type SubCaption struct {
	Text           string  `json:"text"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	HighlightIndex int     `json:"highlight_index"`
}

// Duration returns the length of the window in seconds.
func (s SubCaption) Duration() float64 {
	return s.End - s.Start
}

// Schedule returns the display windows for chunk. With highlight enabled
// there is one window per word, running from the word's start to the next
// word's start so consecutive highlights touch. The last window ends at the
// last word's own end. With highlight disabled the whole chunk is one window.
func Schedule(chunk Chunk, highlight bool) []SubCaption {
	if len(chunk.Words) == 0 {
		return nil
	}
	if !highlight {
		return []SubCaption{{
			Text:           chunk.Text,
			Start:          chunk.Start,
			End:            chunk.End,
			HighlightIndex: NoHighlight,
		}}
	}

	subs := make([]SubCaption, len(chunk.Words))
	for i, word := range chunk.Words {
		end := word.End
		if i+1 < len(chunk.Words) {
			end = chunk.Words[i+1].Start
		}
		subs[i] = SubCaption{
			Text:           chunk.Text,
			Start:          word.Start,
			End:            end,
			HighlightIndex: i,
		}
	}
	return subs
}
