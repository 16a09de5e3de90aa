package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcap/internal/api"
	"reelcap/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect generation run history",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFlags []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *runstore.Store) error {
				runs, err := store.List(cmd.Context(), limit, statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					out := make([]api.RunResponse, 0, len(runs))
					for _, run := range runs {
						out = append(out, api.RunToResponse(run))
					}
					return writeJSON(cmd, out)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRunsTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *runstore.Store) error {
				run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				resp := api.RunToResponse(run)
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:         %s\n", resp.ID)
				fmt.Fprintf(out, "Title:       %s\n", resp.Title)
				fmt.Fprintf(out, "Status:      %s\n", resp.Status)
				fmt.Fprintf(out, "Transcript:  %s\n", resp.TranscriptPath)
				fmt.Fprintf(out, "Video:       %s\n", resp.VideoPath)
				if resp.AudioPath != "" {
					fmt.Fprintf(out, "Audio:       %s\n", resp.AudioPath)
				}
				if resp.ImagePath != "" {
					fmt.Fprintf(out, "Image:       %s\n", resp.ImagePath)
				}
				fmt.Fprintf(out, "Output:      %s\n", resp.OutputPath)
				fmt.Fprintf(out, "Captions:    %d chunks, %d captions, %d overlays\n", resp.ChunkCount, resp.SubCaptionCount, resp.OverlayCount)
				fmt.Fprintf(out, "Created:     %s\n", resp.CreatedAt)
				if resp.CompletedAt != "" {
					fmt.Fprintf(out, "Completed:   %s\n", resp.CompletedAt)
				}
				if resp.Error != "" {
					fmt.Fprintf(out, "Error:       %s\n", resp.Error)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func parseStatuses(values []string) ([]runstore.Status, error) {
	var statuses []runstore.Status
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		status, ok := runstore.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func renderRunsTable(runs []*runstore.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		updated := ""
		if !run.UpdatedAt.IsZero() {
			updated = run.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			id,
			run.Title,
			string(run.Status),
			strconv.Itoa(run.SubCaptionCount),
			strconv.Itoa(run.OverlayCount),
			updated,
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Status", "Captions", "Overlays", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
