package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelcap/internal/captions"
	"reelcap/internal/decoration"
	"reelcap/internal/layout"
	"reelcap/internal/logging"
	"reelcap/internal/memo"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
	"reelcap/internal/transcript"
)

// Options bounds the run-scoped caches. Zero means unbounded.
type Options struct {
	LayoutMaxEntries int
	ShadowMaxEntries int
}

// Engine plans and renders caption overlays for one generation run.
type Engine struct {
	style    Style
	wrapper  *layout.Wrapper
	renderer decoration.Renderer
	shadows  *decoration.ShadowCache
	logger   *slog.Logger
}

// NewEngine builds an engine. A nil renderer yields a plan-only engine.
func NewEngine(measurer textmetrics.Measurer, renderer decoration.Renderer, style Style, opts Options, logger *slog.Logger) (*Engine, error) {
	if err := style.validate(); err != nil {
		return nil, err
	}
	logger = logging.NewComponentLogger(logger, "overlay")
	wrapper, err := layout.NewWrapper(measurer, opts.LayoutMaxEntries, logger)
	if err != nil {
		return nil, err
	}
	engine := &Engine{
		style:    style,
		wrapper:  wrapper,
		renderer: renderer,
		logger:   logger,
	}
	if renderer != nil {
		shadows, err := decoration.NewShadowCache(renderer, opts.ShadowMaxEntries)
		if err != nil {
			return nil, err
		}
		engine.shadows = shadows
	}
	return engine, nil
}

// CacheStats reports the layout and shadow cache counters.
func (e *Engine) CacheStats() (layoutStats, shadowStats memo.Stats) {
	layoutStats = e.wrapper.Stats()
	if e.shadows != nil {
		shadowStats = e.shadows.Stats()
	}
	return layoutStats, shadowStats
}

// Build plans every caption overlay for segments on frame. Cancellation is
// checked between chunks.
func (e *Engine) Build(ctx context.Context, segments []transcript.Segment, frame Frame) (Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, e.logger)

	textWidth := frame.Width - 2*e.style.Padding
	if frame.Height <= 0 || textWidth <= 0 {
		return Plan{}, services.Wrap(services.ErrValidation, "overlay", "build",
			fmt.Sprintf("frame %dx%d leaves no room for text with padding %d", frame.Width, frame.Height, e.style.Padding), nil)
	}
	if err := transcript.Validate(segments); err != nil {
		return Plan{}, err
	}

	params := layout.LayoutParams{Font: e.style.Font, FrameWidth: textWidth}
	fit := layout.LineFit{MaxLines: e.style.LineCount, Params: params, Wrapper: e.wrapper}
	chunks, err := captions.Split(segments, fit)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Frame: frame, FrameWidth: textWidth, Chunks: chunks}
	layers := decoration.ShadowLayers(e.style.ShadowStrength)

	for ci, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return Plan{}, err
		}
		for si, sub := range captions.Schedule(chunk, e.style.HighlightCurrentWord) {
			result, err := e.wrapper.Wrap(sub.Text, params)
			if err != nil {
				return Plan{}, err
			}
			y := frame.Height/2 - result.Height/2
			plan.SubCaptions = append(plan.SubCaptions, PlannedCaption{SubCaption: sub, Chunk: ci, Layout: result, Y: y})

			wordIndex := 0
			for li, line := range result.Lines {
				pos := decoration.Position{Y: y, CenterX: true}
				base := Descriptor{Chunk: ci, SubCaption: si, Line: li, Text: line.Text, Start: sub.Start, End: sub.End, Position: pos}

				for _, opacity := range layers {
					shadow, err := e.shadow(base, opacity)
					if err != nil {
						return Plan{}, err
					}
					plan.Overlays = append(plan.Overlays, shadow)
				}

				var spans []decoration.Span
				spans, wordIndex = e.spans(line.Text, sub.HighlightIndex, wordIndex)
				text, err := e.text(base, spans)
				if err != nil {
					return Plan{}, err
				}
				plan.Overlays = append(plan.Overlays, text)
				y += line.Height
			}
		}
		logger.Debug("chunk planned",
			logging.Int("chunk", ci),
			logging.String("text", chunk.Text),
			logging.Float64("start", chunk.Start),
			logging.Float64("end", chunk.End),
		)
	}

	counts := plan.Counts()
	layoutStats, shadowStats := e.CacheStats()
	logger.Info("caption plan built",
		logging.Int("chunks", counts.Chunks),
		logging.Int("sub_captions", counts.SubCaptions),
		logging.Int("overlays", counts.Overlays),
		logging.Int64("layout_cache_hits", layoutStats.Hits),
		logging.Int64("shadow_cache_hits", shadowStats.Hits),
	)
	return plan, nil
}

// spans splits a line into one span per word, colouring the word whose
// index across the whole sub-caption equals highlight.
func (e *Engine) spans(line string, highlight, wordIndex int) ([]decoration.Span, int) {
	words := strings.Fields(line)
	spans := make([]decoration.Span, len(words))
	for i, word := range words {
		spans[i] = decoration.Span{Text: word}
		if e.style.HighlightCurrentWord && wordIndex == highlight {
			spans[i].Color = e.style.HighlightColor
		}
		wordIndex++
	}
	return spans, wordIndex
}

func (e *Engine) shadow(base Descriptor, opacity float64) (Descriptor, error) {
	desc := base
	desc.Kind = KindShadow
	desc.Opacity = opacity
	if e.shadows == nil {
		return desc, nil
	}
	d, err := e.shadows.ShadowFor(decoration.ShadowKey{
		Text:       base.Text,
		FontSize:   e.style.Font.Size,
		FontPath:   e.style.Font.Path,
		BlurRadius: e.style.ShadowBlur,
		Opacity:    opacity,
	})
	if err != nil {
		return Descriptor{}, err
	}
	desc.Decoration = d.WithTiming(base.Start, base.End).WithPosition(base.Position)
	return desc, nil
}

func (e *Engine) text(base Descriptor, spans []decoration.Span) (Descriptor, error) {
	desc := base
	desc.Kind = KindText
	desc.Opacity = 1
	desc.Spans = spans
	if e.renderer == nil {
		return desc, nil
	}
	d, err := e.renderer.RenderText(spans, decoration.TextStyle{
		Font:        e.style.Font,
		Color:       e.style.FontColor,
		StrokeColor: e.style.StrokeColor,
		Opacity:     1,
	})
	if err != nil {
		return Descriptor{}, fmt.Errorf("render caption %q: %w", base.Text, err)
	}
	desc.Decoration = d.WithTiming(base.Start, base.End).WithPosition(base.Position)
	return desc, nil
}
