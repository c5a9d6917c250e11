package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuecraft/internal/services"
)

const whisperJSON = `{
  "segments": [
    {"text": " Hello there.", "start": 0.5, "end": 2.0, "score": 0.91},
    {"text": "General Kenobi.", "start": 2.0, "end": 4.25},
    {"text": "   ", "start": 4.25, "end": 4.5}
  ]
}`

func TestWhisperTranscribeParsesOutput(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.wav")
	if err := os.WriteFile(audioPath, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	src := NewWhisperSource(WhisperConfig{Model: "small", Language: "english"})
	src.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
	var gotArgs []string
	src.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(filepath.Join(dir, "audio.json"), []byte(whisperJSON), 0o644)
	})

	segments, err := src.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2 (blank segment dropped)", len(segments))
	}
	if segments[0].Text != "Hello there." || segments[0].Start.Milliseconds() != 500 || segments[0].End.Milliseconds() != 2000 {
		t.Fatalf("first segment = %+v", segments[0])
	}
	if segments[0].Confidence != 0.91 {
		t.Fatalf("confidence = %v, want 0.91", segments[0].Confidence)
	}
	if segments[1].Confidence != 1 {
		t.Fatalf("missing score should default to full confidence, got %v", segments[1].Confidence)
	}

	joined := map[string]string{}
	for i := 0; i+1 < len(gotArgs); i++ {
		joined[gotArgs[i]] = gotArgs[i+1]
	}
	if joined["--model"] != "small" || joined["--language"] != "en" || joined["--output_format"] != "json" {
		t.Fatalf("whisperx args wrong: %v", gotArgs)
	}
}

func TestWhisperMissingBinaryIsUnavailable(t *testing.T) {
	src := NewWhisperSource(WhisperConfig{})
	src.WithLookPath(func(name string) (string, error) { return "", errors.New("not found") })
	_, err := src.Transcribe(context.Background(), "audio.wav")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestWhisperRunFailureIsExtractionError(t *testing.T) {
	src := NewWhisperSource(WhisperConfig{})
	src.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
	src.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})
	_, err := src.Transcribe(context.Background(), filepath.Join(t.TempDir(), "audio.wav"))
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("err = %v, want extraction error", err)
	}
}

func TestWhisperDeadlineIsTimeout(t *testing.T) {
	src := NewWhisperSource(WhisperConfig{})
	src.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
	src.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		<-ctx.Done()
		return ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Transcribe(ctx, filepath.Join(t.TempDir(), "audio.wav"))
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestWhisperEmptyOutputIsExtractionError(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "audio.wav")
	src := NewWhisperSource(WhisperConfig{})
	src.WithLookPath(func(name string) (string, error) { return "/usr/bin/" + name, nil })
	src.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(filepath.Join(dir, "audio.json"), []byte(`{"segments": []}`), 0o644)
	})
	_, err := src.Transcribe(context.Background(), audioPath)
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("err = %v, want extraction error", err)
	}
}
