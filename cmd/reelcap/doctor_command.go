package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelcap/internal/preflight"
	"reelcap/internal/workflow"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, font, base video and ffmpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, nil)
			video := preflight.Result{Name: "Base video", Passed: true}
			if path, err := workflow.ResolveVideo(cfg.Render.BaseVideo, cfg.Paths.VideoDir); err != nil {
				video.Passed = false
				video.Detail = err.Error()
			} else {
				video.Detail = path
			}
			results = append(results, video)

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("reelcap readiness", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
				fmt.Fprintf(out, "\nHighlight current word: %s\n", yesNo(cfg.Captions.HighlightCurrentWord))
			}
			if err := preflight.Err(results); err != nil {
				return errors.New("one or more readiness checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print check results as JSON")
	return cmd
}
