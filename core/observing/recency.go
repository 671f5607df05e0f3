package observing

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// =============================================================================
// RecencyCache
// =============================================================================

// DefaultRecencyCapacity is the default bound of the recently-seen set. Large
// enough to survive the notification burst of one file being written in
// chunks, small enough to bound memory and avoid false-negative suppression
// of distinct files that happen to reuse a size. Empirically tuned; exposed
// as a configurable parameter rather than a hard invariant.
const DefaultRecencyCapacity = 5

// RecencyCache is a bounded, insertion-order-evicting set of recently seen
// fingerprints, used to suppress duplicate and self-triggered notifications.
// One instance per observer; single-goroutine use, no cross-observer sharing.
//
// Reads go through Peek so they never promote an entry, which keeps the
// underlying LRU evicting in insertion order.
type RecencyCache struct {
	entries *lru.Cache[string, Fingerprint]
}

// NewRecencyCache creates a cache with the given capacity; values below one
// fall back to the default.
func NewRecencyCache(capacity int) *RecencyCache {
	if capacity < 1 {
		capacity = DefaultRecencyCapacity
	}
	// Cannot fail for a positive size.
	entries, _ := lru.New[string, Fingerprint](capacity)
	return &RecencyCache{entries: entries}
}

// Contains reports whether a fingerprint denotes an already-seen file: a hit
// on the same URI with unchanged size, or any cached entry matching by
// content hash and display name.
func (c *RecencyCache) Contains(fp Fingerprint) bool {
	if cached, ok := c.entries.Peek(fp.Ref.URI()); ok {
		if cached.SizeBytes == fp.SizeBytes {
			return true
		}
		if fp.ContentHash != "" && cached.ContentHash == fp.ContentHash {
			return true
		}
	}

	for _, cached := range c.entries.Values() {
		if cached.SameFile(fp) && cached.Ref.URI() != fp.Ref.URI() {
			return true
		}
	}
	return false
}

// Add records a fingerprint, evicting the oldest entry on overflow.
func (c *RecencyCache) Add(fp Fingerprint) {
	c.entries.Add(fp.Ref.URI(), fp)
}

// Len returns the number of cached fingerprints.
func (c *RecencyCache) Len() int {
	return c.entries.Len()
}
