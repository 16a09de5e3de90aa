package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reelcap/internal/services"
)

type wireWord struct {
	Word  string  `json:"word"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type wireSegment struct {
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Words []wireWord `json:"words"`
}

// wirePayload covers both WhisperX output and OpenAI verbose_json.
type wirePayload struct {
	Segments []wireSegment `json:"segments"`
	Words    []wireWord    `json:"words"`
}

// Load reads and validates a transcript JSON file.
func Load(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrValidation, stageName, "load", "transcript path is empty", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, stageName, "load", fmt.Sprintf("transcript %q not found", path), err)
		}
		return nil, services.Wrap(services.ErrConfiguration, stageName, "load", "open transcript", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses a transcript document, normalizes word text and validates
// timestamps. When top-level words are present they are folded into a single
// segment spanning the first segment start to the last segment end.
func Decode(r io.Reader) ([]Segment, error) {
	var payload wirePayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "decode", "parse transcript json", err)
	}

	var segments []Segment
	if len(payload.Words) > 0 {
		words := normalizeWords(payload.Words)
		if len(words) > 0 {
			start, end := words[0].Start, words[len(words)-1].End
			if len(payload.Segments) > 0 {
				start = payload.Segments[0].Start
				end = payload.Segments[len(payload.Segments)-1].End
			}
			segments = append(segments, Segment{Start: start, End: end, Words: words})
		}
	} else {
		for _, seg := range payload.Segments {
			words := normalizeWords(seg.Words)
			if len(words) == 0 {
				continue
			}
			segments = append(segments, Segment{Start: seg.Start, End: seg.End, Words: words})
		}
	}

	if err := Validate(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// normalizeWords trims and NFC normalizes word text. Empty words are dropped.
// A token holding inner whitespace is split so every Word is exactly one
// layout token; the pieces share the original timing.
func normalizeWords(in []wireWord) []Word {
	out := make([]Word, 0, len(in))
	for _, w := range in {
		text := w.Word
		if text == "" {
			text = w.Text
		}
		text = norm.NFC.String(strings.TrimSpace(text))
		if text == "" {
			continue
		}
		for _, field := range strings.Fields(text) {
			out = append(out, Word{Text: field, Start: w.Start, End: w.End})
		}
	}
	return out
}
