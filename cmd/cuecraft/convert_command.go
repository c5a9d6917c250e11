package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuecraft/internal/config"
	"cuecraft/internal/export"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:         "convert <input.vtt> <output>",
		Short:       "Convert a WebVTT caption file to another format",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			outputPath, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}

			var format export.Format
			if formatFlag != "" {
				format, err = export.ParseFormat(formatFlag)
			} else {
				format, err = export.FormatForPath(outputPath)
			}
			if err != nil {
				return err
			}

			track, err := export.ParseVTTFile(inputPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if violations := track.Validate(); len(violations) > 0 {
				for _, v := range violations {
					fmt.Fprintf(out, "Warning: cue %d: %s\n", v.CueID, v.Detail)
				}
			}

			report, err := export.Export(track, format, outputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d cues to %s (%s)\n", track.Len(), outputPath, format)
			if !report.Clean() {
				fmt.Fprintf(out, "Note: %s cannot carry styling; %d cues exported without their style\n",
					format, len(report.DroppedStyles))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: vtt, srt, or sbv (default: inferred from destination)")
	return cmd
}
