// Package cleanup deletes registered files when the process shuts down.
// Deletion is best effort: failures are logged at debug level and skipped.
package cleanup

import (
	"errors"
	"log/slog"
	"os"
	"sync"
)

// ErrShutdownInProgress is returned by Register once Run has started.
var ErrShutdownInProgress = errors.New("cleanup: shutdown in progress")

// Registry tracks paths to delete at shutdown, in registration order.
type Registry struct {
	mu     sync.Mutex
	paths  []string
	index  map[string]int
	closed bool
	log    *slog.Logger
}

// New returns an empty registry. A nil logger falls back to slog.Default().
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		index: make(map[string]int),
		log:   log,
	}
}

// Register schedules path for deletion. Registering a path twice keeps its
// first position.
func (r *Registry) Register(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrShutdownInProgress
	}
	if _, ok := r.index[path]; ok {
		return nil
	}
	r.index[path] = len(r.paths)
	r.paths = append(r.paths, path)
	return nil
}

// Remove deletes path now and forgets it. A file that is already gone is
// not an error.
func (r *Registry) Remove(path string) error {
	r.mu.Lock()
	if i, ok := r.index[path]; ok {
		r.paths[i] = ""
		delete(r.index, path)
		if len(r.paths) > 2*len(r.index)+16 {
			r.compactLocked()
		}
	}
	r.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (r *Registry) compactLocked() {
	kept := r.paths[:0]
	for _, p := range r.paths {
		if p != "" {
			r.index[p] = len(kept)
			kept = append(kept, p)
		}
	}
	r.paths = kept
}

// Pending returns the registered paths in registration order.
func (r *Registry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.index))
	for _, p := range r.paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Run deletes every registered path, newest first, and closes the registry.
// Calling Run again is a no-op.
func (r *Registry) Run() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	paths := r.paths
	log := r.log
	r.paths = nil
	r.index = nil
	r.mu.Unlock()

	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil {
			log.Debug("cleanup: delete failed", "path", p, "error", err)
		}
	}
}

var defaultReg = New(nil)

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultReg
}

// SetLogger replaces the logger of the process-wide registry.
func SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	reg := Default()
	reg.mu.Lock()
	reg.log = log
	reg.mu.Unlock()
}

// Register schedules path on the process-wide registry.
func Register(path string) error { return Default().Register(path) }

// Remove deletes path and drops it from the process-wide registry.
func Remove(path string) error { return Default().Remove(path) }

// Run empties the process-wide registry.
func Run() { Default().Run() }
