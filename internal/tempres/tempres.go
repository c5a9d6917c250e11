// Package tempres manages scoped scratch directories for transcription
// attempts. Each resource is an isolated directory that exists from Acquire
// until Release, so a retried attempt never sees a predecessor's files.
package tempres

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"cuecraft/internal/services"
)

// Resource is a scratch directory handle. Release is idempotent; after the
// first call the directory and everything under it is gone.
type Resource struct {
	id   string
	root string

	mu       sync.Mutex
	released bool
}

// Acquire creates a fresh uniquely named directory under baseDir.
func Acquire(baseDir string) (*Resource, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "tempres", "acquire", baseDir, err)
	}
	id := uuid.NewString()
	root := filepath.Join(baseDir, id)
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "tempres", "acquire", root, err)
	}
	return &Resource{id: id, root: root}, nil
}

// ID returns the unique identifier of this resource.
func (r *Resource) ID() string { return r.id }

// Root returns the directory path. Callers must not use the path after
// Release.
func (r *Resource) Root() string { return r.root }

// Path joins elements onto the resource root.
func (r *Resource) Path(elem ...string) string {
	return filepath.Join(append([]string{r.root}, elem...)...)
}

// Released reports whether Release has completed.
func (r *Resource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Release removes the directory and its contents. Calling it more than once
// is safe and returns nil on the repeats.
func (r *Resource) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	if err := os.RemoveAll(r.root); err != nil {
		return services.Wrap(services.ErrIO, "tempres", "release", r.root, err)
	}
	r.released = true
	return nil
}
