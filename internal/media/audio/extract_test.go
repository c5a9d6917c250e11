package audio

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cuecraft/internal/services"
	"cuecraft/internal/testsupport"
)

func TestExtractBuildsMono16kCommand(t *testing.T) {
	extractor := NewExtractor("")
	var gotBinary string
	var gotArgs []string
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		gotBinary = binary
		gotArgs = args
		return nil, nil
	}

	if err := extractor.Extract(context.Background(), "input.mp4", "out.wav"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if gotBinary != "ffmpeg" {
		t.Fatalf("binary = %q, want ffmpeg default", gotBinary)
	}
	joined := map[string]string{}
	for i := 0; i+1 < len(gotArgs); i++ {
		joined[gotArgs[i]] = gotArgs[i+1]
	}
	if joined["-ac"] != "1" || joined["-ar"] != "16000" || joined["-c:a"] != "pcm_s16le" {
		t.Fatalf("audio layout flags wrong in %v", gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != "out.wav" {
		t.Fatalf("command should end with destination, got %v", gotArgs)
	}
}

func TestExtractFailureIsExtractionError(t *testing.T) {
	extractor := NewExtractor("ffmpeg")
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte("input.mp4: Invalid data found"), errors.New("exit status 1")
	}
	err := extractor.Extract(context.Background(), "input.mp4", "out.wav")
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("err = %v, want extraction error", err)
	}
}

func TestExtractDeadlineIsTimeout(t *testing.T) {
	extractor := NewExtractor("ffmpeg")
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := extractor.Extract(ctx, "input.mp4", "out.wav")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestEstimateDurationSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	// 32000 bytes of mono 16kHz 16-bit PCM is exactly one second.
	testsupport.WriteFile(t, path, 32000)
	got, err := EstimateDurationSeconds(path)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("estimate = %v, want 1.0", got)
	}

	if _, err := EstimateDurationSeconds(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, services.ErrIO) {
		t.Fatalf("missing file err = %v, want IO error", err)
	}
}
