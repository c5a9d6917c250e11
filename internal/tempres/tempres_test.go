package tempres

import (
	"os"
	"testing"
)

func TestAcquireCreatesIsolatedDirectories(t *testing.T) {
	base := t.TempDir()
	first, err := Acquire(base)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	second, err := Acquire(base)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if first.Root() == second.Root() {
		t.Fatalf("resources share a directory: %s", first.Root())
	}
	if first.ID() == second.ID() {
		t.Fatalf("resources share an id: %s", first.ID())
	}
	info, err := os.Stat(first.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("resource root missing: %v", err)
	}
}

func TestReleaseRemovesEverythingAndIsIdempotent(t *testing.T) {
	res, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := os.WriteFile(res.Path("audio.wav"), []byte("pcm"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := res.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !res.Released() {
		t.Fatal("Released() = false after release")
	}
	if _, err := os.Stat(res.Root()); !os.IsNotExist(err) {
		t.Fatalf("root still present after release, stat err = %v", err)
	}
	if err := res.Release(); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
}

func TestPathJoinsUnderRoot(t *testing.T) {
	res, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer res.Release()
	got := res.Path("segments", "part.wav")
	want := res.Root() + string(os.PathSeparator) + "segments" + string(os.PathSeparator) + "part.wav"
	if got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}
