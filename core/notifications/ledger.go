package notifications

import (
	"sort"
	"sync"
)

// =============================================================================
// ResourceHandle
// =============================================================================

// ResourceHandle is the set of integer identifiers addressing one posted
// notification and its action buttons. It is plain data: a handle embedded in
// a notification's pending intents can be reconstructed after a process
// restart without the ledger (whose uniqueness guarantee is scoped to one
// process lifetime).
type ResourceHandle struct {
	// ID is the notification id.
	ID int

	// ActionCodes are the opaque callback identifiers of the actions.
	ActionCodes []int

	// Gen distinguishes this allocation from a later one reusing the same
	// integers, so a stale double-free cannot free a successor's resources.
	Gen uint64
}

// =============================================================================
// ResourceLedger
// =============================================================================

// ResourceLedger allocates and frees the integer identifiers for in-flight
// candidate files. IDs are unique among all currently allocated handles;
// freed ids return to the pool and may be reused by later allocations.
// Freeing is idempotent: cleanup is triggered redundantly from multiple
// independent paths (user action racing notification dismissal), so a
// double free is a no-op, never an error.
type ResourceLedger struct {
	mu      sync.Mutex
	nextID  int
	nextGen uint64
	free    []int
	active  map[int]uint64 // id -> generation
}

// NewResourceLedger creates an empty ledger. The id space starts at firstID,
// letting callers reserve low ids for fixed notifications.
func NewResourceLedger(firstID int) *ResourceLedger {
	return &ResourceLedger{
		nextID: firstID,
		active: map[int]uint64{},
	}
}

// Allocate assigns a fresh notification id plus actionCount fresh action
// codes, all unique among currently allocated handles.
func (l *ResourceLedger) Allocate(actionCount int) ResourceHandle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextGen++
	gen := l.nextGen

	handle := ResourceHandle{
		ID:          l.takeLocked(gen),
		ActionCodes: make([]int, 0, actionCount),
		Gen:         gen,
	}
	for i := 0; i < actionCount; i++ {
		handle.ActionCodes = append(handle.ActionCodes, l.takeLocked(gen))
	}
	return handle
}

// takeLocked takes one id, preferring the lowest freed id.
func (l *ResourceLedger) takeLocked(gen uint64) int {
	var id int
	if len(l.free) > 0 {
		id = l.free[0]
		l.free = l.free[1:]
	} else {
		id = l.nextID
		l.nextID++
	}
	l.active[id] = gen
	return id
}

// Free returns a handle's ids to the pool. Safe to call repeatedly; a handle
// whose ids have since been reallocated to a newer handle is ignored.
func (l *ResourceLedger) Free(handle ResourceHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range append([]int{handle.ID}, handle.ActionCodes...) {
		gen, ok := l.active[id]
		if !ok || gen != handle.Gen {
			continue
		}
		delete(l.active, id)
		l.free = append(l.free, id)
	}
	sort.Ints(l.free)
}

// ActiveCount returns the number of currently allocated ids.
func (l *ResourceLedger) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}
