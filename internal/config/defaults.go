package config

const (
	defaultWorkDir        = "~/.local/share/cuecraft/work"
	defaultLogDir         = "~/.local/share/cuecraft/logs"
	defaultWhisperModel   = "small"
	defaultLanguage       = "en"
	defaultTimeoutSeconds = 600
	defaultChunkWords     = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNtfyTimeout    = 10
	defaultStyleName      = "default"
)

// Default returns a Config populated with repository defaults. The default
// style table mirrors the presentation defaults callers expect when none are
// supplied by the collaborator UI.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Transcription: Transcription{
			WhisperModel:   defaultWhisperModel,
			Language:       defaultLanguage,
			TimeoutSeconds: defaultTimeoutSeconds,
			ChunkWords:     defaultChunkWords,
		},
		Styles: map[string]map[string]string{
			defaultStyleName: {
				"color":       "#FFFFFF",
				"font-family": "Arial",
				"font-size":   "24px",
			},
			"highlight": {
				"color":       "#FFD700",
				"font-weight": "bold",
			},
		},
		DefaultStyle: defaultStyleName,
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
