// Package persons adapts the external person directory for the relationship
// engine. The engine only ever reads persons; writes belong to the identity
// system that owns them.
package persons

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nasabhq/nasab/internal/storage"
	"github.com/nasabhq/nasab/pkg/types"
)

// Directory is the read-side contract for person records. It is satisfied by
// the storage adapters and by test fakes.
type Directory = storage.PersonDirectory

// CachedDirectory is a read-through LRU cache in front of a Directory.
// Traversal and degree computation resolve the same person IDs over and over
// (shared ancestors, both parents of every sibling), so a small cache removes
// most directory round-trips. Negative results are not cached: an unknown
// person may be registered between calls.
type CachedDirectory struct {
	inner Directory
	cache *lru.Cache[string, *types.Person]
}

// DefaultCacheSize bounds the cache to roughly one extended family network.
const DefaultCacheSize = 512

// NewCachedDirectory wraps inner with an LRU cache of the given size.
// size <= 0 falls back to DefaultCacheSize.
func NewCachedDirectory(inner Directory, size int) (*CachedDirectory, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *types.Person](size)
	if err != nil {
		return nil, err
	}
	return &CachedDirectory{inner: inner, cache: cache}, nil
}

// GetPerson returns the cached person record or reads through to the inner
// directory.
func (d *CachedDirectory) GetPerson(ctx context.Context, id string) (*types.Person, error) {
	if p, ok := d.cache.Get(id); ok {
		return p, nil
	}
	p, err := d.inner.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Add(id, p)
	return p, nil
}

// Invalidate drops a person from the cache. Callers that learn of identity
// updates out of band can force a re-read.
func (d *CachedDirectory) Invalidate(id string) {
	d.cache.Remove(id)
}
