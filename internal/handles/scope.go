package handles

import "sync"

// Scope owns the handles of one render cycle. Views acquire fresh handles
// through the scope each cycle and release the previous cycle's scope when
// the new one is ready, so no handle outlives the render that displayed it.
type Scope struct {
	manager *Manager

	mu      sync.Mutex
	handles []*Handle
}

// NewScope starts an empty render-cycle scope on the manager.
func (m *Manager) NewScope() *Scope {
	return &Scope{manager: m}
}

// Acquire allocates a handle owned by the scope.
func (s *Scope) Acquire(payload []byte) (*Handle, error) {
	handle, err := s.manager.Acquire(payload)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.handles = append(s.handles, handle)
	s.mu.Unlock()
	return handle, nil
}

// Release releases every handle acquired through the scope. Safe to call on
// any exit path, including after a partial cycle; releasing twice is a no-op.
func (s *Scope) Release() error {
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()

	var firstErr error
	for _, handle := range handles {
		if err := handle.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len reports the number of live handles held by the scope.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
