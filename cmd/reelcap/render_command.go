package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelcap/internal/config"
	"reelcap/internal/runstore"
	"reelcap/internal/workflow"
)

type renderOutput struct {
	RunID       string  `json:"run_id"`
	Output      string  `json:"output"`
	Chunks      int     `json:"chunks"`
	SubCaptions int     `json:"sub_captions"`
	Overlays    int     `json:"overlays"`
	Duration    float64 `json:"duration_seconds"`
	ElapsedMS   int64   `json:"elapsed_ms"`
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var req workflow.Request
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a captioned video from a transcript",
		Long: `Render lays out and times captions for a transcript, then composites them
onto the base video with ffmpeg. The voice-over audio sets the video length
when given; otherwise the captions do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(req.TranscriptPath) == "" {
				return errors.New("--transcript is required")
			}
			if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.OutputPath) == "" {
				return errors.New("either --title or --output is required")
			}
			if err := expandRequestPaths(&req); err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var result workflow.Result
			err = ctx.withStore(func(store *runstore.Store) error {
				generator := workflow.NewGenerator(cfg, store, logger)
				result, err = generator.Generate(signalCtx, req)
				return err
			})
			if err != nil {
				if errors.Is(signalCtx.Err(), context.Canceled) {
					return context.Canceled
				}
				return err
			}

			out := renderOutput{
				RunID:       result.RunID,
				Output:      result.OutputPath,
				Chunks:      result.Counts.Chunks,
				SubCaptions: result.Counts.SubCaptions,
				Overlays:    result.Counts.Overlays,
				Duration:    result.Duration,
				ElapsedMS:   result.Elapsed.Milliseconds(),
			}
			if jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Rendered %s\n", out.Output)
			fmt.Fprintf(w, "Run %s: %d chunks, %d captions, %d overlays, %.2fs of video in %s\n",
				out.RunID, out.Chunks, out.SubCaptions, out.Overlays, out.Duration, result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "Video title; names the output file")
	cmd.Flags().StringVar(&req.TranscriptPath, "transcript", "", "Word-timed transcript JSON")
	cmd.Flags().StringVar(&req.AudioPath, "audio", "", "Voice-over audio track")
	cmd.Flags().StringVar(&req.ImagePath, "image", "", "Still image shown centred at the start")
	cmd.Flags().StringVar(&req.Video, "video", "", "Base video name or path (default render.base_video)")
	cmd.Flags().StringVarP(&req.OutputPath, "output", "o", "", "Output file (default <output_dir>/<title>.mp4)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func expandRequestPaths(req *workflow.Request) error {
	for _, field := range []*string{&req.TranscriptPath, &req.AudioPath, &req.ImagePath, &req.OutputPath} {
		if strings.TrimSpace(*field) == "" {
			continue
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
