package overlay

import (
	"reelcap/internal/captions"
	"reelcap/internal/decoration"
	"reelcap/internal/layout"
)

// Frame is the video frame size in pixels.
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Kind distinguishes shadow layers from caption text.
type Kind string

const (
	KindShadow Kind = "shadow"
	KindText   Kind = "text"
)

// Descriptor is one overlay the compositor draws. Decoration carries the
// bitmap, window and position; Bitmap is nil for plan-only engines.
type Descriptor struct {
	Kind       Kind                  `json:"kind"`
	Chunk      int                   `json:"chunk"`
	SubCaption int                   `json:"sub_caption"`
	Line       int                   `json:"line"`
	Text       string                `json:"text"`
	Spans      []decoration.Span     `json:"spans,omitempty"`
	Opacity    float64               `json:"opacity"`
	Start      float64               `json:"start"`
	End        float64               `json:"end"`
	Position   decoration.Position   `json:"position"`
	Decoration decoration.Decoration `json:"-"`
}

// PlannedCaption is a sub-caption with its layout and the y offset of its
// first line.
type PlannedCaption struct {
	captions.SubCaption
	Chunk  int           `json:"chunk"`
	Layout layout.Result `json:"layout"`
	Y      int           `json:"y"`
}

// Counts summarizes a plan.
type Counts struct {
	Chunks      int `json:"chunks"`
	SubCaptions int `json:"sub_captions"`
	Overlays    int `json:"overlays"`
}

// Plan is the output of Engine.Build.
type Plan struct {
	Frame       Frame            `json:"frame"`
	FrameWidth  int              `json:"text_width"`
	Chunks      []captions.Chunk `json:"chunks"`
	SubCaptions []PlannedCaption `json:"sub_captions"`
	Overlays    []Descriptor     `json:"overlays"`
}

// Counts returns the chunk, sub-caption and overlay totals.
func (p Plan) Counts() Counts {
	return Counts{
		Chunks:      len(p.Chunks),
		SubCaptions: len(p.SubCaptions),
		Overlays:    len(p.Overlays),
	}
}
