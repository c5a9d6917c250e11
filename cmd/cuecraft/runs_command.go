package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cuecraft/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show transcription run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := fmt.Sprintf("%.1fs", run.DurationSeconds)
				if run.DurationEstimated {
					duration += " (est)"
				}
				rows = append(rows, []string{
					run.ID[:8],
					filepath.Base(run.SourcePath),
					string(run.Status),
					run.Variant,
					fmt.Sprintf("%d", run.SegmentCount),
					duration,
					run.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Source", "Status", "Variant", "Segments", "Duration", "Started"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the attempt history of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := resolveRun(cmd, st, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintf(out, "  Source:   %s\n", run.SourcePath)
			fmt.Fprintf(out, "  Status:   %s\n", run.Status)
			if run.Variant != "" {
				fmt.Fprintf(out, "  Variant:  %s\n", run.Variant)
			}
			fmt.Fprintf(out, "  Segments: %d\n", run.SegmentCount)
			fmt.Fprintf(out, "  Duration: %.1fs (estimated: %s)\n", run.DurationSeconds, yesNo(run.DurationEstimated))
			if run.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:    %s\n", run.ErrorMessage)
			}

			attempts, err := st.ListAttempts(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(attempts))
			for _, attempt := range attempts {
				rows = append(rows, []string{
					attempt.Variant,
					fmt.Sprintf("%d", attempt.Attempt),
					attempt.Outcome,
					attempt.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Variant", "Attempt", "Outcome", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

// resolveRun accepts a full run id or a unique prefix of one.
func resolveRun(cmd *cobra.Command, st *store.Store, id string) (*store.Run, error) {
	run, err := st.GetRun(cmd.Context(), id)
	if err == nil {
		return run, nil
	}
	runs, listErr := st.ListRuns(cmd.Context(), 0)
	if listErr != nil {
		return nil, err
	}
	var match *store.Run
	for _, candidate := range runs {
		if len(id) >= 4 && len(candidate.ID) >= len(id) && candidate.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}
