package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cuecraft/internal/config"
	"cuecraft/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Work directory:  %s\n", cfg.Paths.WorkDir)
			fmt.Fprintf(out, "Log directory:   %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Whisper model:   %s (cuda: %s)\n", cfg.Transcription.WhisperModel, yesNo(cfg.Transcription.WhisperCUDA))
			remote := cfg.Transcription.RemoteURL
			if remote == "" {
				remote = "(not configured)"
			}
			fmt.Fprintf(out, "Remote endpoint: %s\n", remote)
			fmt.Fprintf(out, "Language:        %s\n", cfg.Transcription.Language)
			fmt.Fprintf(out, "Words per cue:   %d\n", cfg.Transcription.ChunkWords)
			fmt.Fprintf(out, "Default style:   %s\n", cfg.DefaultStyle)

			names := make([]string, 0, len(cfg.Styles))
			for name := range cfg.Styles {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				props := cfg.Styles[name]
				keys := make([]string, 0, len(props))
				for key := range props {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				pairs := make([]string, 0, len(keys))
				for _, key := range keys {
					pairs = append(pairs, key+"="+props[key])
				}
				fmt.Fprintf(out, "Style %q:       %s\n", name, strings.Join(pairs, " "))
			}
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			if overwrite {
				backup, err := backupConfig(target)
				if err != nil {
					return err
				}
				if backup != "" {
					fmt.Fprintf(out, "Backed up existing configuration to %s\n", backup)
				}
			}
			if err := config.WriteSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point remote_url at a transcription endpoint if you want the secondary engine.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// backupConfig moves an existing config aside to <path>.bak and returns the
// backup path, or "" when there was nothing to back up.
func backupConfig(target string) (string, error) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("inspect existing config: %w", err)
	}
	backup := target + ".bak"
	if err := fileutil.CopyFile(target, backup); err != nil {
		return "", fmt.Errorf("back up existing config: %w", err)
	}
	if err := os.Remove(target); err != nil {
		return "", fmt.Errorf("remove existing config: %w", err)
	}
	return backup, nil
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
