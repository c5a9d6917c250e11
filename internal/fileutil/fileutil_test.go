package fileutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuecraft/internal/fileutil"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.vtt")

	if err := fileutil.WriteFileAtomic(path, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "WEBVTT\n" {
		t.Fatalf("content = %q", data)
	}

	// Overwrite replaces content wholesale.
	if err := fileutil.WriteFileAtomic(path, []byte("replaced"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "replaced" {
		t.Fatalf("overwrite content = %q", data)
	}

	// No temp droppings left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestWriteFileAtomicMissingDirLeavesNothing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist", "out.vtt")
	if err := fileutil.WriteFileAtomic(missing, []byte("data"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("partial file present: %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q", data)
	}
}
