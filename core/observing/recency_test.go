package observing

import (
	"strconv"
	"testing"

	"github.com/w2sv/filenavigator/core/mediastore"
)

func fp(uri, name string, size int64) Fingerprint {
	return Fingerprint{
		Ref:         mediastore.NewItemReference(uri),
		DisplayName: name,
		SizeBytes:   size,
	}
}

func TestRecencyCache_SameURISameSizeIsDuplicate(t *testing.T) {
	cache := NewRecencyCache(5)

	first := fp("media://images/1", "IMG_001.jpg", 200000)
	if cache.Contains(first) {
		t.Fatal("empty cache must not contain anything")
	}

	cache.Add(first)
	if !cache.Contains(fp("media://images/1", "IMG_001.jpg", 200000)) {
		t.Error("same URI with unchanged size must be a duplicate")
	}
}

func TestRecencyCache_SameURIChangedSizeIsNotDuplicate(t *testing.T) {
	cache := NewRecencyCache(5)
	cache.Add(fp("media://images/1", "IMG_001.jpg", 100))

	if cache.Contains(fp("media://images/1", "IMG_001.jpg", 9999)) {
		t.Error("a grown file is a new logical write, not a duplicate")
	}
}

func TestRecencyCache_HashAndNameMatchAcrossURIs(t *testing.T) {
	cache := NewRecencyCache(5)

	moved := fp("media://images/1", "IMG_001.jpg", 200000)
	moved.ContentHash = "abc123"
	cache.Add(moved)

	reappeared := fp("media://images/2", "IMG_001.jpg", 200000)
	reappeared.ContentHash = "abc123"
	if !cache.Contains(reappeared) {
		t.Error("identical bytes under a new row must be recognized as the same file")
	}

	renamed := fp("media://images/3", "other.jpg", 200000)
	renamed.ContentHash = "abc123"
	if cache.Contains(renamed) {
		t.Error("hash match without name match must not suppress")
	}
}

func TestRecencyCache_EvictsOldestOnOverflow(t *testing.T) {
	cache := NewRecencyCache(3)

	for i := 0; i < 4; i++ {
		cache.Add(fp("media://images/"+strconv.Itoa(i), "f.jpg", int64(i)))
	}

	if cache.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cache.Len())
	}
	if cache.Contains(fp("media://images/0", "f.jpg", 0)) {
		t.Error("oldest entry should have been evicted")
	}
	if !cache.Contains(fp("media://images/1", "f.jpg", 1)) {
		t.Error("second-oldest entry should survive")
	}
}

// Contains must not refresh an entry's position; eviction stays in insertion
// order regardless of lookups.
func TestRecencyCache_LookupsDoNotPromote(t *testing.T) {
	cache := NewRecencyCache(2)

	a := fp("media://images/a", "a.jpg", 1)
	b := fp("media://images/b", "b.jpg", 2)
	cache.Add(a)
	cache.Add(b)

	for i := 0; i < 5; i++ {
		cache.Contains(a)
	}

	cache.Add(fp("media://images/c", "c.jpg", 3))
	if cache.Contains(a) {
		t.Error("a was inserted first and must be evicted first, lookups notwithstanding")
	}
	if !cache.Contains(b) {
		t.Error("b should survive")
	}
}

func TestRecencyCache_DefaultCapacity(t *testing.T) {
	cache := NewRecencyCache(0)
	for i := 0; i < DefaultRecencyCapacity+2; i++ {
		cache.Add(fp("media://images/"+strconv.Itoa(i), "f.jpg", int64(i)))
	}
	if cache.Len() != DefaultRecencyCapacity {
		t.Fatalf("Len = %d, want %d", cache.Len(), DefaultRecencyCapacity)
	}
}
