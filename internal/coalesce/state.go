package coalesce

import (
	"sync"

	"reelpost/internal/release"
)

// State holds the pending batches and the set of keys with an open window.
// All mutation goes through its methods, which share one mutex.
type State struct {
	mu       sync.Mutex
	pending  map[release.Key][]release.FileDescriptor
	inFlight map[release.Key]struct{}
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		pending:  make(map[release.Key][]release.FileDescriptor),
		inFlight: make(map[release.Key]struct{}),
	}
}

// add appends desc to the key's batch and reports whether the caller must
// open a window for it.
func (s *State) add(key release.Key, desc release.FileDescriptor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = append(s.pending[key], desc)
	if _, open := s.inFlight[key]; open {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

// pop removes and returns the key's batch and closes its window.
func (s *State) pop(key release.Key) []release.FileDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.pending[key]
	delete(s.pending, key)
	delete(s.inFlight, key)
	return batch
}

// Pending returns the number of descriptors waiting under key.
func (s *State) Pending(key release.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[key])
}

// InFlight reports whether key has an open window.
func (s *State) InFlight(key release.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[key]
	return ok
}

// Keys returns the number of keys with an open window.
func (s *State) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}
