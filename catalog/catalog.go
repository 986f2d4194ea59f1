// Package catalog discovers cached bundle files and keeps them in a fixed, cyclic order.
//
// A Catalog is built once by a recursive scan and only ever grows afterwards (the optional
// Watcher appends newly cached files). Rotation reads it through a Cursor.
package catalog

import (
	"errors"
	"sync"

	"github.com/lixenwraith/holo-carousel/bundle"
)

// ErrNotFound is returned when the storage root is missing, unreadable, or holds no candidates
var ErrNotFound = errors.New("no bundles found")

// Catalog is an append-only ordered set of candidates
// Safe for one writer (the watcher) and concurrent readers (the frame loop)
type Catalog struct {
	mu    sync.RWMutex
	items []bundle.Candidate
	seen  map[bundle.Candidate]struct{}
}

// New creates a catalog holding the given candidates in order, duplicates dropped
func New(candidates ...bundle.Candidate) *Catalog {
	c := &Catalog{
		items: make([]bundle.Candidate, 0, len(candidates)),
		seen:  make(map[bundle.Candidate]struct{}, len(candidates)),
	}
	for _, cand := range candidates {
		c.Append(cand)
	}
	return c
}

// Append adds a candidate at the end; returns false if it was already present
func (c *Catalog) Append(cand bundle.Candidate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[cand]; ok {
		return false
	}
	c.seen[cand] = struct{}{}
	c.items = append(c.items, cand)
	return true
}

// Len returns the number of candidates
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the candidate at index i; i must be in [0, Len())
func (c *Catalog) At(i int) bundle.Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[i]
}

// Items returns a snapshot of all candidates
func (c *Catalog) Items() []bundle.Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]bundle.Candidate(nil), c.items...)
}
