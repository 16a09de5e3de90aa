package transcript_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcap/internal/services"
	"reelcap/internal/transcript"
)

func TestDecodeWhisperXSegments(t *testing.T) {
	doc := `{"segments":[
		{"start":0.0,"end":0.8,"words":[{"word":" Hello","start":0.0,"end":0.4},{"word":"world ","start":0.4,"end":0.8}]},
		{"start":0.8,"end":1.3,"words":[{"word":"today","start":0.8,"end":1.3},{"word":"   ","start":1.3,"end":1.3}]}
	]}`

	segments, err := transcript.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	words := transcript.Words(segments)
	got := make([]string, 0, len(words))
	for _, w := range words {
		got = append(got, w.Text)
	}
	if strings.Join(got, "|") != "Hello|world|today" {
		t.Fatalf("unexpected words %v", got)
	}
	if words[2].Start != 0.8 || words[2].End != 1.3 {
		t.Fatalf("unexpected timing for last word: %+v", words[2])
	}
}

func TestDecodeVerboseJSONFoldsTopLevelWords(t *testing.T) {
	doc := `{
		"words":[{"word":"One","start":0.1,"end":0.3},{"word":"two","start":0.3,"end":0.6}],
		"segments":[{"start":0.0,"end":0.4},{"start":0.4,"end":0.9}]
	}`

	segments, err := transcript.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected one folded segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.Start != 0.0 || seg.End != 0.9 {
		t.Fatalf("expected folded span 0.0-0.9, got %.1f-%.1f", seg.Start, seg.End)
	}
	if len(seg.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(seg.Words))
	}
}

func TestDecodeNormalizesToNFC(t *testing.T) {
	// "cafe" followed by a combining acute accent.
	doc := `{"segments":[{"start":0,"end":1,"words":[{"word":"cafe\u0301","start":0,"end":1}]}]}`

	segments, err := transcript.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got := segments[0].Words[0].Text; got != "caf\u00e9" {
		t.Fatalf("expected precomposed form, got %q", got)
	}
}

func TestDecodeSplitsInnerWhitespace(t *testing.T) {
	doc := `{"segments":[{"start":0,"end":1,"words":[{"word":"New York","start":0.2,"end":0.9}]}]}`

	segments, err := transcript.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	words := segments[0].Words
	if len(words) != 2 || words[0].Text != "New" || words[1].Text != "York" {
		t.Fatalf("unexpected split: %+v", words)
	}
	if words[1].Start != 0.2 || words[1].End != 0.9 {
		t.Fatalf("split pieces should share timing: %+v", words[1])
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := transcript.Decode(strings.NewReader(`{"segments":`))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		segments []transcript.Segment
		wantErr  bool
	}{
		{
			name: "ordered",
			segments: []transcript.Segment{{Start: 0, End: 1, Words: []transcript.Word{
				{Text: "a", Start: 0, End: 0.5}, {Text: "b", Start: 0.5, End: 1},
			}}},
		},
		{
			name: "equal starts allowed",
			segments: []transcript.Segment{{Start: 0, End: 1, Words: []transcript.Word{
				{Text: "a", Start: 0.5, End: 0.5}, {Text: "b", Start: 0.5, End: 1},
			}}},
		},
		{
			name: "start after end",
			segments: []transcript.Segment{{Start: 0, End: 1, Words: []transcript.Word{
				{Text: "a", Start: 0.6, End: 0.5},
			}}},
			wantErr: true,
		},
		{
			name: "out of order across segments",
			segments: []transcript.Segment{
				{Start: 0, End: 1, Words: []transcript.Word{{Text: "a", Start: 0.8, End: 1}}},
				{Start: 1, End: 2, Words: []transcript.Word{{Text: "b", Start: 0.4, End: 1.5}}},
			},
			wantErr: true,
		},
		{
			name:     "segment inverted",
			segments: []transcript.Segment{{Start: 2, End: 1}},
			wantErr:  true,
		},
		{
			name: "negative start",
			segments: []transcript.Segment{{Start: 0, End: 1, Words: []transcript.Word{
				{Text: "a", Start: -0.1, End: 0.5},
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transcript.Validate(tt.segments)
			if tt.wantErr {
				if !errors.Is(err, services.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := transcript.Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	doc := `{"segments":[{"start":0,"end":1,"words":[{"word":"hi","start":0,"end":1}]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	segments, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	start, end, ok := transcript.Span(segments)
	if !ok || start != 0 || end != 1 {
		t.Fatalf("unexpected span %v %v %v", start, end, ok)
	}
}
