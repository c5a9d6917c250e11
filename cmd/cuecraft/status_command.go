package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuecraft/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check host readiness for transcription runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("System dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := false
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				kind := statusOK
				message := status.Command
				if !status.Available {
					message = status.Detail
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
						failed = true
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failed {
				return fmt.Errorf("one or more readiness checks failed")
			}
			return nil
		},
	}
}
