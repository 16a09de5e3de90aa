package layout

import (
	"fmt"
	"log/slog"
	"strings"

	"reelcap/internal/logging"
	"reelcap/internal/memo"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
)

// Line is one wrapped row of text and its measured height in pixels.
type Line struct {
	Text   string `json:"text"`
	Height int    `json:"height"`
}

// Result is the wrapped block. Height is the sum of the line heights.
type Result struct {
	Lines  []Line `json:"lines"`
	Height int    `json:"height"`
}

// Words returns the number of whitespace separated words across all lines.
func (r Result) Words() int {
	total := 0
	for _, line := range r.Lines {
		total += len(strings.Fields(line.Text))
	}
	return total
}

func (r Result) clone() Result {
	out := Result{Height: r.Height}
	if r.Lines != nil {
		out.Lines = make([]Line, len(r.Lines))
		copy(out.Lines, r.Lines)
	}
	return out
}

// LayoutParams are the non-text inputs of a wrap.
type LayoutParams struct {
	Font       textmetrics.Font
	FrameWidth int
}

// LayoutKey identifies a memoized wrap result.
type LayoutKey struct {
	Text        string
	FontPath    string
	FontSize    int
	StrokeWidth int
	FrameWidth  int
}

// KeyFor builds the cache key for text wrapped with params.
func KeyFor(text string, params LayoutParams) LayoutKey {
	return LayoutKey{
		Text:        text,
		FontPath:    params.Font.Path,
		FontSize:    params.Font.Size,
		StrokeWidth: params.Font.StrokeWidth,
		FrameWidth:  params.FrameWidth,
	}
}

// Wrapper wraps text with a Measurer and memoizes the results.
type Wrapper struct {
	measurer textmetrics.Measurer
	cache    *memo.Cache[LayoutKey, Result]
	logger   *slog.Logger
}

// NewWrapper builds a Wrapper whose cache holds at most maxEntries results.
// Zero means unbounded.
func NewWrapper(measurer textmetrics.Measurer, maxEntries int, logger *slog.Logger) (*Wrapper, error) {
	if measurer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "layout", "init", "measurer is required", nil)
	}
	cache, err := memo.New[LayoutKey, Result](maxEntries)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "layout", "init", "layout cache", err)
	}
	return &Wrapper{
		measurer: measurer,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "layout"),
	}, nil
}

// Wrap splits text into lines narrower than params.FrameWidth.
func (w *Wrapper) Wrap(text string, params LayoutParams) (Result, error) {
	if params.FrameWidth <= 0 {
		return Result{}, services.Wrap(services.ErrValidation, "layout", "wrap",
			fmt.Sprintf("frame width %d must be positive", params.FrameWidth), nil)
	}
	key := KeyFor(text, params)
	if cached, ok := w.cache.Get(key); ok {
		return cached.clone(), nil
	}

	result, err := w.wrap(text, params)
	if err != nil {
		return Result{}, err
	}
	w.cache.Add(key, result.clone())
	return result, nil
}

// Stats reports layout cache counters.
func (w *Wrapper) Stats() memo.Stats {
	return w.cache.Stats()
}

func (w *Wrapper) wrap(text string, params LayoutParams) (Result, error) {
	words := strings.Fields(text)
	var (
		result  Result
		pending *Line
		current []string
	)

	for i := 0; i < len(words); {
		candidate := strings.Join(append(current, words[i]), " ")
		size, err := w.measurer.Measure(candidate, params.Font)
		if err != nil {
			return Result{}, fmt.Errorf("measure %q: %w", candidate, err)
		}

		if size.Width < params.FrameWidth {
			pending = &Line{Text: candidate, Height: size.Height}
			current = append(current, words[i])
			i++
			continue
		}

		if pending == nil {
			attrs := append(logging.DecisionAttrs("word_overflow", "own_line", "word is wider than the frame"),
				logging.String("word", candidate),
				logging.Int("width", size.Width),
				logging.Int("frame_width", params.FrameWidth),
			)
			logging.Notice(w.logger, "word is too long for the frame", "word_overflow", attrs...)
			pending = &Line{Text: candidate, Height: size.Height}
			i++
		}
		result.Lines = append(result.Lines, *pending)
		result.Height += pending.Height
		pending = nil
		current = current[:0]
	}

	if pending != nil {
		result.Lines = append(result.Lines, *pending)
		result.Height += pending.Height
	}
	return result, nil
}
