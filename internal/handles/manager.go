package handles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Handle is a transient reference to a payload rendered from scratch space.
// It carries no identity beyond its token; callers must not compare handles
// across acquisitions or persist them.
type Handle struct {
	token string
	path  string

	mu       sync.Mutex
	released bool
}

// Path returns the scratch file location backing the handle.
func (h *Handle) Path() string {
	return h.path
}

// Release reclaims the scratch file. Releasing twice is a no-op.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release handle: %w", err)
	}
	return nil
}

// Manager allocates display handles under a scratch directory.
type Manager struct {
	dir string
}

// NewManager constructs a handle manager rooted at dir, creating it when
// necessary.
func NewManager(dir string) (*Manager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("handles: scratch directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("handles: create scratch directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Acquire allocates a fresh handle bound to the payload's bytes. The file
// extension is sniffed from the payload so external viewers can open the
// handle directly.
func (m *Manager) Acquire(payload []byte) (*Handle, error) {
	if len(payload) == 0 {
		return nil, errors.New("handles: payload required")
	}
	token := uuid.NewString()
	ext := mimetype.Detect(payload).Extension()
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(m.dir, token+ext)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("handles: write scratch file: %w", err)
	}
	return &Handle{token: token, path: path}, nil
}

// Close removes all scratch files under the manager's directory. Outstanding
// handles become invalid.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("handles: read scratch directory: %w", err)
	}
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, entry.Name())); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("handles: sweep scratch file: %w", err)
		}
	}
	return firstErr
}
