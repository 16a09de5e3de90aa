package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcap/internal/captions"
	"reelcap/internal/config"
	"reelcap/internal/logging"
	"reelcap/internal/media/ffprobe"
	"reelcap/internal/overlay"
	"reelcap/internal/textmetrics"
	"reelcap/internal/transcript"
	"reelcap/internal/workflow"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var width, height int
	var video string
	var jsonOutput bool
	var noHighlight bool

	cmd := &cobra.Command{
		Use:   "plan <transcript.json>",
		Short: "Preview caption chunks, timing and layout without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			segments, err := transcript.Load(path)
			if err != nil {
				return err
			}

			frame := overlay.Frame{Width: width, Height: height}
			if strings.TrimSpace(video) != "" {
				frame, err = probeFrame(cmd, cfg, video)
				if err != nil {
					return err
				}
			}

			fonts := textmetrics.NewOpenType()
			defer fonts.Close()
			fontPath, err := textmetrics.ResolveFont(cfg.Captions.Font, cfg.Paths.FontDir)
			if err != nil {
				return err
			}
			captionCfg := cfg.Captions
			if noHighlight {
				captionCfg.HighlightCurrentWord = false
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			engine, err := overlay.NewEngine(fonts, nil, overlay.StyleFromConfig(captionCfg, fontPath),
				overlay.Options{LayoutMaxEntries: cfg.Cache.LayoutMaxEntries}, logger)
			if err != nil {
				return err
			}
			plan, err := engine.Build(cmd.Context(), segments, frame)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, plan)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlanTable(plan))
			counts := plan.Counts()
			layoutStats, _ := engine.CacheStats()
			fmt.Fprintf(out, "%d chunks, %d captions, %d overlays on %dx%d (text width %d)\n",
				counts.Chunks, counts.SubCaptions, counts.Overlays, frame.Width, frame.Height, plan.FrameWidth)
			logging.WithContext(cmd.Context(), logger).Debug("layout cache",
				logging.Int64("hits", layoutStats.Hits),
				logging.Int64("misses", layoutStats.Misses),
				logging.Int("entries", layoutStats.Entries),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 1080, "Frame width in pixels")
	cmd.Flags().IntVar(&height, "height", 1920, "Frame height in pixels")
	cmd.Flags().StringVar(&video, "video", "", "Take the frame size from this base video instead")
	cmd.Flags().BoolVar(&noHighlight, "no-highlight", false, "Plan one caption per chunk instead of per word")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full plan as JSON")
	return cmd
}

func probeFrame(cmd *cobra.Command, cfg *config.Config, video string) (overlay.Frame, error) {
	path, err := workflow.ResolveVideo(video, cfg.Paths.VideoDir)
	if err != nil {
		return overlay.Frame{}, err
	}
	result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
	if err != nil {
		return overlay.Frame{}, err
	}
	w, h, ok := result.VideoDimensions()
	if !ok {
		return overlay.Frame{}, errors.New("base video has no video stream")
	}
	return overlay.Frame{Width: w, Height: h}, nil
}

func renderPlanTable(plan overlay.Plan) string {
	rows := make([][]string, 0, len(plan.SubCaptions))
	for i, sc := range plan.SubCaptions {
		lines := make([]string, 0, len(sc.Layout.Lines))
		for _, line := range sc.Layout.Lines {
			lines = append(lines, line.Text)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(sc.Chunk + 1),
			fmt.Sprintf("%.2f", sc.Start),
			fmt.Sprintf("%.2f", sc.End),
			highlightedWord(sc),
			strconv.Itoa(sc.Y),
			strings.Join(lines, "\n"),
		})
	}
	return renderTable(
		[]string{"#", "Chunk", "Start", "End", "Highlight", "Y", "Lines"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft},
	)
}

func highlightedWord(sc overlay.PlannedCaption) string {
	if sc.HighlightIndex == captions.NoHighlight {
		return "-"
	}
	words := strings.Fields(sc.Text)
	if sc.HighlightIndex < len(words) {
		return words[sc.HighlightIndex]
	}
	return strconv.Itoa(sc.HighlightIndex)
}
