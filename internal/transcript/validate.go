package transcript

import (
	"fmt"
	"math"

	"reelcap/internal/services"
)

const stageName = "transcript"

// Validate checks that every word has start <= end and that word starts never
// decrease across the whole transcript. Nothing is reordered or clamped.
func Validate(segments []Segment) error {
	prevStart := math.Inf(-1)
	index := 0
	for s, seg := range segments {
		if !finite(seg.Start) || !finite(seg.End) {
			return services.Wrap(services.ErrValidation, stageName, "validate",
				fmt.Sprintf("segment %d has a non-finite timestamp", s), nil)
		}
		if seg.Start > seg.End {
			return services.Wrap(services.ErrValidation, stageName, "validate",
				fmt.Sprintf("segment %d starts at %.3f after it ends at %.3f", s, seg.Start, seg.End), nil)
		}
		for _, word := range seg.Words {
			if !finite(word.Start) || !finite(word.End) {
				return services.Wrap(services.ErrValidation, stageName, "validate",
					fmt.Sprintf("word %d %q has a non-finite timestamp", index, word.Text), nil)
			}
			if word.Start < 0 {
				return services.Wrap(services.ErrValidation, stageName, "validate",
					fmt.Sprintf("word %d %q starts before zero", index, word.Text), nil)
			}
			if word.Start > word.End {
				return services.Wrap(services.ErrValidation, stageName, "validate",
					fmt.Sprintf("word %d %q starts at %.3f after it ends at %.3f", index, word.Text, word.Start, word.End), nil)
			}
			if word.Start < prevStart {
				return services.Wrap(services.ErrValidation, stageName, "validate",
					fmt.Sprintf("word %d %q starts at %.3f before the previous word at %.3f", index, word.Text, word.Start, prevStart), nil)
			}
			prevStart = word.Start
			index++
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
