package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cuecraft/internal/language"
	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

// WhisperX invocation constants.
const (
	UVXCommand     = "uvx"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	DefaultModel   = "small"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// WhisperConfig captures runtime settings for local WhisperX transcription.
type WhisperConfig struct {
	Model       string
	CUDAEnabled bool
	Language    string
}

// WhisperSource runs WhisperX locally through uvx. It is the primary
// variant: best quality, heaviest dependency footprint.
type WhisperSource struct {
	cfg           WhisperConfig
	lookPath      func(string) (string, error)
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewWhisperSource creates the primary transcript source.
func NewWhisperSource(cfg WhisperConfig) *WhisperSource {
	return &WhisperSource{cfg: cfg, lookPath: exec.LookPath}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *WhisperSource) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// WithLookPath sets a custom binary resolver (for testing).
func (s *WhisperSource) WithLookPath(lookPath func(string) (string, error)) {
	s.lookPath = lookPath
}

// Variant identifies this source as the primary model.
func (s *WhisperSource) Variant() Variant { return VariantPrimaryModel }

// Model returns the configured model name for logging.
func (s *WhisperSource) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Transcribe runs WhisperX against the audio file and parses the JSON it
// writes next to the input. A missing uvx binary is unavailability; a failed
// run or unreadable output is an extraction failure; a blown deadline is a
// timeout.
func (s *WhisperSource) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrExtraction, "whisper", "transcribe", "audio path required", nil)
	}
	if _, err := s.lookPath(UVXCommand); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "whisper", "transcribe",
			fmt.Sprintf("%s not on PATH", UVXCommand), err)
	}

	outputDir := filepath.Dir(audioPath)
	args := s.buildArgs(audioPath, outputDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, "whisper", "transcribe", audioPath, ctx.Err())
		}
		return nil, services.Wrap(services.ErrExtraction, "whisper", "transcribe", audioPath, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := loadSegments(jsonPath)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrExtraction, "whisper", "transcribe",
			fmt.Sprintf("%s produced no segments", jsonPath), nil)
	}
	return segments, nil
}

func (s *WhisperSource) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *WhisperSource) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 16)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}
	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", "json",
	)
	if lang := language.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

type whisperPayload struct {
	Segments []whisperSegment `json:"segments"`
}

func loadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "whisper", "load-output", jsonPath, err)
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, services.Wrap(services.ErrExtraction, "whisper", "load-output", jsonPath, err)
	}
	segments := make([]Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		confidence := seg.Score
		if confidence == 0 {
			confidence = 1
		}
		segments = append(segments, Segment{
			Text:       text,
			Start:      timecode.FromSeconds(seg.Start),
			End:        timecode.FromSeconds(seg.End),
			Confidence: confidence,
		})
	}
	return segments, nil
}
