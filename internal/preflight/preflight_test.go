package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if res := CheckDirectoryAccess("Work directory", dir); !res.Passed {
		t.Fatalf("writable dir should pass, got %+v", res)
	}

	missing := filepath.Join(dir, "missing")
	if res := CheckDirectoryAccess("Work directory", missing); res.Passed {
		t.Fatalf("missing dir should fail, got %+v", res)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if res := CheckDirectoryAccess("Work directory", file); res.Passed {
		t.Fatalf("plain file should fail, got %+v", res)
	}
}

func TestCheckRemoteEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	if res := CheckRemoteEndpoint(context.Background(), server.URL); !res.Passed {
		t.Fatalf("answering endpoint should pass regardless of status, got %+v", res)
	}
	if res := CheckRemoteEndpoint(context.Background(), "not-a-url"); res.Passed {
		t.Fatalf("malformed url should fail, got %+v", res)
	}
	if res := CheckRemoteEndpoint(context.Background(), "http://127.0.0.1:1"); res.Passed {
		t.Fatalf("unreachable endpoint should fail, got %+v", res)
	}
}
