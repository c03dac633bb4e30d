package publish

import (
	"sync"

	"reelpost/internal/release"
)

// Index remembers the last message handle sent for each key.
type Index struct {
	mu      sync.RWMutex
	handles map[release.Key]Handle
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{handles: make(map[release.Key]Handle)}
}

// Get returns the handle recorded for key.
func (i *Index) Get(key release.Key) (Handle, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	h, ok := i.handles[key]
	return h, ok
}

// Put records handle as the current post for key.
func (i *Index) Put(key release.Key, handle Handle) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handles[key] = handle
}

// Len returns the number of keys with a recorded post.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.handles)
}
