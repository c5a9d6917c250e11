// Package preflight verifies that a host can actually run transcriptions:
// required binaries present, working directories writable, remote endpoint
// configured sanely. The checks never mutate anything.
package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"cuecraft/internal/config"
	"cuecraft/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if strings.TrimSpace(cfg.Transcription.RemoteURL) != "" {
		results = append(results, CheckRemoteEndpoint(ctx, cfg.Transcription.RemoteURL))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRemoteEndpoint verifies the remote transcription endpoint answers at
// all. Any HTTP status counts as reachable; a transcription request is too
// expensive for a health probe, and auth problems surface at run time.
func CheckRemoteEndpoint(ctx context.Context, url string) Result {
	const name = "Remote endpoint"
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not an http(s) url)", url)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, url, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", url, err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: unreachable: %v)", url, err)}
	}
	resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", url)}
}

// CheckSystemDeps evaluates all binary dependencies for the given config.
// Both the CLI status command and run startup use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Transcription.FFmpegBinary,
			Description: "Required for audio extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Transcription.FFprobeBinary,
			Description: "Required for media inspection",
		},
		{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Required for WhisperX-driven transcription",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}
