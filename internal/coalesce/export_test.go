package coalesce

import "reelpost/internal/release"

// TakePending removes the batch for key outside a window.
func (s *State) TakePending(key release.Key) []release.FileDescriptor {
	return s.pop(key)
}
