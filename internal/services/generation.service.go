package services

import (
	"sync"
)

// GenerationService hands out monotonically increasing load generations
// per key; loads key them by the snapshot they will write. A refresh
// that finishes after a newer one has started must not install its
// result; callers tag the fetch with Begin and check IsCurrent before
// committing.
type GenerationService struct {
	mu          sync.Mutex
	generations map[string]uint64
}

func NewGenerationService() *GenerationService {
	return &GenerationService{
		generations: make(map[string]uint64),
	}
}

// Begin starts a new load generation for the key and returns its tag.
// Any earlier in-flight load for the same key is now stale.
func (s *GenerationService) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[key]++
	return s.generations[key]
}

// IsCurrent reports whether the tagged load is still the latest one for
// its key.
func (s *GenerationService) IsCurrent(key string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generations[key] == generation
}
