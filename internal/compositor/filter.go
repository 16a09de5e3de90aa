package compositor

import (
	"fmt"
	"strings"

	"reelcap/internal/decoration"
)

// overlayInput pairs a decoration with the PNG holding its pixels.
type overlayInput struct {
	path       string
	decoration decoration.Decoration
}

// buildFilterScript chains overlay filters on top of input 0. The final
// video pad is labelled [vout].
func buildFilterScript(overlays []overlayInput, imagePath string, imageSeconds float64) string {
	var b strings.Builder
	current := "0:v"
	step := 0
	next := func() string {
		step++
		return fmt.Sprintf("v%d", step)
	}

	for i, ov := range overlays {
		src := fmt.Sprintf("o%d", i)
		fmt.Fprintf(&b, "movie=filename=%s[%s];\n", quoteFilterValue(ov.path), src)
		out := next()
		fmt.Fprintf(&b, "[%s][%s]overlay=x=%s:y=%s:enable='%s'[%s];\n",
			current, src, xExpr(ov.decoration), yExpr(ov.decoration),
			enableExpr(ov.decoration.Start, ov.decoration.End), out)
		current = out
	}

	if imagePath != "" && imageSeconds > 0 {
		fmt.Fprintf(&b, "movie=filename=%s[still];\n", quoteFilterValue(imagePath))
		out := next()
		fmt.Fprintf(&b, "[%s][still]overlay=x=(W-w)/2:y=(H-h)/2:enable='%s'[%s];\n",
			current, enableExpr(0, imageSeconds), out)
		current = out
	}

	fmt.Fprintf(&b, "[%s]null[vout]\n", current)
	return b.String()
}

func xExpr(d decoration.Decoration) string {
	if d.Position.CenterX {
		return "(W-w)/2"
	}
	return fmt.Sprintf("%d", d.Position.X-d.Inset)
}

func yExpr(d decoration.Decoration) string {
	return fmt.Sprintf("%d", d.Position.Y-d.Inset)
}

// enableExpr is true on [start, end). Touching windows never share a frame.
func enableExpr(start, end float64) string {
	return fmt.Sprintf("gte(t,%s)*lt(t,%s)", formatSeconds(start), formatSeconds(end))
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// quoteFilterValue wraps a filter option value in single quotes. A literal
// quote closes the quoted run, is escaped, and reopens it.
func quoteFilterValue(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
