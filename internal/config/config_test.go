package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cuecraft/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "cuecraft", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Transcription.ChunkWords != 1 {
		t.Fatalf("unexpected chunk_words default: %d", cfg.Transcription.ChunkWords)
	}
	if cfg.Transcription.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Transcription.FFmpegBinary)
	}
	if cfg.DefaultStyle != "default" {
		t.Fatalf("unexpected default style: %q", cfg.DefaultStyle)
	}
	if _, ok := cfg.Styles["default"]; !ok {
		t.Fatal("expected default style table")
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.LogDir, "cuecraft.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadExplicitFileOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[paths]
work_dir = "~/captions/work"

[transcription]
chunk_words = 3
language = "de"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing resolved config, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "captions", "work") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Transcription.ChunkWords != 3 {
		t.Fatalf("unexpected chunk_words: %d", cfg.Transcription.ChunkWords)
	}
	if cfg.Transcription.Language != "de" {
		t.Fatalf("unexpected language: %q", cfg.Transcription.Language)
	}
	// Untouched sections keep defaults.
	if cfg.Transcription.TimeoutSeconds != 600 {
		t.Fatalf("unexpected timeout: %d", cfg.Transcription.TimeoutSeconds)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero timeout", func(c *config.Config) { c.Transcription.TimeoutSeconds = 0 }, "timeout_seconds"},
		{"zero chunk", func(c *config.Config) { c.Transcription.ChunkWords = 0 }, "chunk_words"},
		{"bad remote url", func(c *config.Config) { c.Transcription.RemoteURL = "ftp://host" }, "remote_url"},
		{"unknown default style", func(c *config.Config) { c.DefaultStyle = "missing" }, "default_style"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.DefaultStyle != "default" {
		t.Fatalf("sample default_style = %q", cfg.DefaultStyle)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
