package transcript

// Word is one spoken word with its timing in seconds.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the span of the word in seconds.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Segment is a transcription-level grouping of words, usually a phrase.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Words flattens segments into a single ordered word stream.
func Words(segments []Segment) []Word {
	total := 0
	for _, seg := range segments {
		total += len(seg.Words)
	}
	out := make([]Word, 0, total)
	for _, seg := range segments {
		out = append(out, seg.Words...)
	}
	return out
}

// Span returns the start of the first word and the end of the last word.
// ok is false when the transcript has no words.
func Span(segments []Segment) (start, end float64, ok bool) {
	words := Words(segments)
	if len(words) == 0 {
		return 0, 0, false
	}
	return words[0].Start, words[len(words)-1].End, true
}
