package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cuecraft/internal/config"
	"cuecraft/internal/export"
	"cuecraft/internal/logging"
	"cuecraft/internal/notifications"
	"cuecraft/internal/orchestrator"
	"cuecraft/internal/store"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var formatFlag string
	var chunkWords int
	var languageTag string
	var styleName string

	cmd := &cobra.Command{
		Use:   "transcribe <media-file>",
		Short: "Transcribe a media file into a timed caption file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyTranscribeOverrides(cfg, chunkWords, languageTag, styleName); err != nil {
				return err
			}

			sourcePath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			dest, format, err := resolveDestination(sourcePath, outputPath, formatFlag)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			notifier := notifications.NewService(cfg)
			orch := orchestrator.New(cfg, logger, st, notifier)
			orch.WithProgress(func(event orchestrator.Event) {
				switch event.Type {
				case orchestrator.EventExtractionStarted:
					fmt.Fprintln(out, "Extracting audio...")
				case orchestrator.EventTranscribing:
					fmt.Fprintf(out, "Transcribing via %s...\n", event.Variant)
				case orchestrator.EventFailed:
					fmt.Fprintf(out, "Run failed: %s\n", event.Detail)
				}
			})

			result, err := orch.Run(cmd.Context(), sourcePath)
			if err != nil {
				return err
			}

			report, err := export.Export(result.Track, format, dest)
			if err != nil {
				return err
			}
			if notifyErr := notifier.NotifyExportCompleted(cmd.Context(), dest, string(format), result.Track.Len()); notifyErr != nil {
				logger.Warn("failed to send export notification", logging.Error(notifyErr))
			}

			fmt.Fprintf(out, "Wrote %d cues to %s (%s, via %s)\n",
				result.Track.Len(), dest, format, result.Variant)
			if result.DurationEstimated {
				fmt.Fprintf(out, "Duration %.1fs is estimated from audio size, not container metadata\n",
					result.DurationSeconds)
			}
			if !report.Clean() {
				fmt.Fprintf(out, "Note: %s cannot carry styling; %d cues exported without their style\n",
					format, len(report.DroppedStyles))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination caption file (default: source name with format extension)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: vtt, srt, or sbv (default: inferred from destination)")
	cmd.Flags().IntVar(&chunkWords, "chunk-words", 0, "Words per cue (default from config)")
	cmd.Flags().StringVarP(&languageTag, "language", "l", "", "Spoken language tag or name (default from config)")
	cmd.Flags().StringVarP(&styleName, "style", "s", "", "Style assigned to every cue; must be defined in config")
	return cmd
}

// applyTranscribeOverrides folds command-line overrides into the loaded
// configuration. A style override must name a configured style.
func applyTranscribeOverrides(cfg *config.Config, chunkWords int, languageTag, styleName string) error {
	if chunkWords > 0 {
		cfg.Transcription.ChunkWords = chunkWords
	}
	if tag := strings.TrimSpace(languageTag); tag != "" {
		cfg.Transcription.Language = tag
	}
	if name := strings.TrimSpace(styleName); name != "" {
		if _, ok := cfg.Styles[name]; !ok {
			return fmt.Errorf("style %q is not defined in the configuration", name)
		}
		cfg.DefaultStyle = name
	}
	return nil
}

// resolveDestination works out where the captions go and in which format.
// An explicit format wins over the destination extension; with neither, the
// default is WebVTT next to the source.
func resolveDestination(sourcePath, outputPath, formatFlag string) (string, export.Format, error) {
	var format export.Format
	if strings.TrimSpace(formatFlag) != "" {
		parsed, err := export.ParseFormat(formatFlag)
		if err != nil {
			return "", "", err
		}
		format = parsed
	}

	dest := strings.TrimSpace(outputPath)
	if dest == "" {
		if format == "" {
			format = export.FormatVTT
		}
		base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
		return base + "." + string(format), format, nil
	}

	expanded, err := config.ExpandPath(dest)
	if err != nil {
		return "", "", err
	}
	if format == "" {
		inferred, err := export.FormatForPath(expanded)
		if err != nil {
			return "", "", err
		}
		format = inferred
	}
	return expanded, format, nil
}
