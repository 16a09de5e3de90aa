package layout

// FitEvaluator decides whether text fits the caption area.
type FitEvaluator interface {
	Fits(text string) (bool, error)
}

// LineFit reports whether text wraps into at most MaxLines lines.
type LineFit struct {
	MaxLines int
	Params   LayoutParams
	Wrapper  *Wrapper
}

// Fits wraps text and compares the line count with MaxLines.
func (f LineFit) Fits(text string) (bool, error) {
	result, err := f.Wrapper.Wrap(text, f.Params)
	if err != nil {
		return false, err
	}
	return len(result.Lines) <= f.MaxLines, nil
}
