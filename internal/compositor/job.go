package compositor

import (
	"fmt"
	"strings"

	"reelcap/internal/decoration"
	"reelcap/internal/services"
)

// Job describes one composite encode.
type Job struct {
	BaseVideo    string
	AudioPath    string
	ImagePath    string
	ImageSeconds float64
	Overlays     []decoration.Decoration
	FPS          float64
	Duration     float64
	OutputPath   string
	WorkDir      string
	VideoCodec   string
	AudioCodec   string
	Threads      int
}

func (j Job) validate() error {
	var problems []string
	if strings.TrimSpace(j.BaseVideo) == "" {
		problems = append(problems, "base video is required")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		problems = append(problems, "output path is required")
	}
	if strings.TrimSpace(j.WorkDir) == "" {
		problems = append(problems, "work directory is required")
	}
	if j.Duration < 0 {
		problems = append(problems, fmt.Sprintf("duration %.3f must not be negative", j.Duration))
	}
	for i, d := range j.Overlays {
		if d.Bitmap == nil {
			problems = append(problems, fmt.Sprintf("overlay %d has no bitmap", i))
			break
		}
		if d.End < d.Start {
			problems = append(problems, fmt.Sprintf("overlay %d ends before it starts", i))
			break
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrValidation, "compositor", "validate job", strings.Join(problems, "; "), nil)
}
