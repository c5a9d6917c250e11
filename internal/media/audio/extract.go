// Package audio extracts speech-recognition ready audio from media files.
// Extraction always produces mono 16kHz 16-bit PCM WAV, the input layout every
// transcription variant expects.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"cuecraft/internal/services"
)

const (
	// SampleRate is the output sample rate in Hz.
	SampleRate = 16000
	// Channels is the output channel count.
	Channels = 1
	// BytesPerSample is the output sample width for pcm_s16le.
	BytesPerSample = 2
)

// Runner executes ffmpeg. Swapped in tests.
type Runner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// Extractor converts media files into transcription-ready WAV audio.
type Extractor struct {
	Binary string
	Run    Runner
}

// NewExtractor returns an extractor invoking the given ffmpeg binary,
// defaulting to ffmpeg on PATH.
func NewExtractor(binary string) *Extractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Extractor{Binary: binary, Run: execRunner}
}

// Extract writes the first audio stream of source to dest as mono 16kHz WAV.
func (e *Extractor) Extract(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrExtraction, "audio", "extract", "empty source path", nil)
	}
	if strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrExtraction, "audio", "extract", "empty destination path", nil)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", fmt.Sprintf("%d", Channels),
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
	run := e.Run
	if run == nil {
		run = execRunner
	}
	if output, err := run(ctx, e.Binary, args...); err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "audio", "extract", source, ctx.Err())
		}
		return services.Wrap(services.ErrExtraction, "audio", "extract",
			fmt.Sprintf("%s: %s", source, strings.TrimSpace(string(output))), err)
	}
	return nil
}

// EstimateDurationSeconds approximates the playable length of an extracted
// WAV file from its size alone, assuming the fixed mono 16kHz 16-bit layout
// Extract produces. The WAV header makes the estimate run slightly long, so
// callers must surface the value as approximate rather than measured.
func EstimateDurationSeconds(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "audio", "estimate-duration", path, err)
	}
	return float64(info.Size()) / float64(SampleRate*Channels*BytesPerSample), nil
}
