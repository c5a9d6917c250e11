package ffprobe

import (
	"context"
	"errors"
	"testing"

	"cuecraft/internal/services"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "input.mp4", "nb_streams": 2, "duration": "632.480000", "size": "10485760", "format_name": "mov,mp4"}
}`

func TestInspectParsesProbeOutput(t *testing.T) {
	inspector := NewInspector("")
	var gotArgs []string
	inspector.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("binary = %q, want ffprobe default", binary)
		}
		gotArgs = args
		return []byte(sampleJSON), nil
	}

	result, err := inspector.Inspect(context.Background(), "input.mp4")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("audio streams = %d, want 1", result.AudioStreamCount())
	}
	if got := result.DurationSeconds(); got != 632.48 {
		t.Fatalf("duration = %v, want 632.48", got)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != "input.mp4" {
		t.Fatalf("probe args should end with the path, got %v", gotArgs)
	}
}

func TestInspectFailuresAreExtractionErrors(t *testing.T) {
	inspector := NewInspector("ffprobe")

	inspector.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte("input.mp4: No such file or directory"), errors.New("exit status 1")
	}
	if _, err := inspector.Inspect(context.Background(), "input.mp4"); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("probe failure err = %v, want extraction error", err)
	}

	inspector.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte("not json"), nil
	}
	if _, err := inspector.Inspect(context.Background(), "input.mp4"); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("parse failure err = %v, want extraction error", err)
	}

	if _, err := inspector.Inspect(context.Background(), "  "); !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("empty path err = %v, want extraction error", err)
	}
}

func TestDurationSecondsToleratesGarbage(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"632.48", 632.48},
		{"", 0},
		{"N/A", 0},
		{"-3", 0},
	}
	for _, tc := range cases {
		r := Result{Format: Format{Duration: tc.in}}
		if got := r.DurationSeconds(); got != tc.want {
			t.Fatalf("DurationSeconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
