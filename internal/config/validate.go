package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateStyles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return fmt.Errorf("paths.work_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir is required")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.TimeoutSeconds <= 0 {
		return fmt.Errorf("transcription.timeout_seconds must be positive, got %d", c.Transcription.TimeoutSeconds)
	}
	if c.Transcription.ChunkWords < 1 {
		return fmt.Errorf("transcription.chunk_words must be at least 1, got %d", c.Transcription.ChunkWords)
	}
	if c.Transcription.RemoteURL != "" && !strings.HasPrefix(c.Transcription.RemoteURL, "http") {
		return fmt.Errorf("transcription.remote_url must be an http(s) URL, got %q", c.Transcription.RemoteURL)
	}
	return nil
}

func (c *Config) validateStyles() error {
	name := strings.TrimSpace(c.DefaultStyle)
	if name == "" {
		return nil
	}
	if _, ok := c.Styles[name]; !ok {
		return fmt.Errorf("default_style %q is not defined in the [styles] table", name)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
