// Package guard provides an in-flight operation guard. It keeps a second
// submission of the same form from starting while the first is still
// running.
package guard

import "sync"

// Flight tracks in-flight operations by key.
type Flight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// New creates an empty flight guard.
func New() *Flight {
	return &Flight{active: make(map[string]struct{})}
}

// TryAcquire marks the key as in flight. It returns false when the key
// is already held.
func (f *Flight) TryAcquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, held := f.active[key]; held {
		return false
	}
	f.active[key] = struct{}{}
	return true
}

// Release clears the key. Releasing a key that is not held is a no-op.
func (f *Flight) Release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, key)
}
