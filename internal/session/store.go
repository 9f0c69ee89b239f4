// Package session keeps the most recent generation. Histogram, statistics
// and paging requests all read from this single retained slot.
package session

import (
	"sync"
	"time"

	"simrng/domain/core"
	"simrng/domain/dist"
)

// Generation is one immutable sample set and the inputs that produced it.
// It must not be modified once handed to Store.Replace.
type Generation struct {
	ID           core.ID         `json:"id"`
	Seed         uint64          `json:"seed"`
	Source       string          `json:"source"`
	Distribution dist.Descriptor `json:"distribution"`
	Samples      []float64       `json:"-"`
	Hash         core.Hash       `json:"sample_hash"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Count returns the number of samples.
func (g *Generation) Count() int {
	return len(g.Samples)
}

// Page returns the 1-based page of size samples. Out of range pages are empty.
func (g *Generation) Page(page, size int) []float64 {
	if page < 1 || size < 1 {
		return []float64{}
	}
	start := (page - 1) * size
	if start >= len(g.Samples) {
		return []float64{}
	}
	end := min(start+size, len(g.Samples))
	return g.Samples[start:end]
}

// Pages returns the number of pages of size samples.
func (g *Generation) Pages(size int) int {
	if size < 1 {
		return 0
	}
	return (len(g.Samples) + size - 1) / size
}

// Store is the retained slot. Replace swaps in a completed generation under
// the write lock so readers see either the old set or the new one.
type Store struct {
	mu      sync.RWMutex
	current *Generation
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs g as the current generation.
func (s *Store) Replace(g *Generation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = g
}

// Current returns the current generation or core.ErrNoGeneration.
func (s *Store) Current() (*Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, core.ErrNoGeneration
	}
	return s.current, nil
}
