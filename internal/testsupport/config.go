package testsupport

import (
	"path/filepath"
	"testing"

	"cuecraft/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRemoteEndpoint points the secondary engine at a test server.
func WithRemoteEndpoint(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcription.RemoteURL = url
	}
}

// WithChunkWords overrides the words-per-cue chunking.
func WithChunkWords(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcription.ChunkWords = n
	}
}
