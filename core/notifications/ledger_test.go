package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AllocateUnique(t *testing.T) {
	ledger := NewResourceLedger(100)

	first := ledger.Allocate(3)
	second := ledger.Allocate(3)

	seen := map[int]bool{}
	for _, handle := range []ResourceHandle{first, second} {
		for _, id := range append([]int{handle.ID}, handle.ActionCodes...) {
			assert.False(t, seen[id], "id %d allocated twice", id)
			seen[id] = true
			assert.GreaterOrEqual(t, id, 100, "id space starts at firstID")
		}
	}
	assert.Len(t, first.ActionCodes, 3)
	assert.Equal(t, 8, ledger.ActiveCount())
}

func TestLedger_FreeReturnsIDsToPool(t *testing.T) {
	ledger := NewResourceLedger(1)

	first := ledger.Allocate(2)
	ledger.Free(first)
	assert.Equal(t, 0, ledger.ActiveCount())

	// Freed ids are preferred, lowest first.
	second := ledger.Allocate(2)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ActionCodes, second.ActionCodes)
	assert.NotEqual(t, first.Gen, second.Gen)
}

func TestLedger_DoubleFreeIsNoOp(t *testing.T) {
	ledger := NewResourceLedger(1)

	handle := ledger.Allocate(2)
	other := ledger.Allocate(2)

	ledger.Free(handle)
	ledger.Free(handle)
	ledger.Free(handle)

	require.Equal(t, 3, ledger.ActiveCount(), "only the freed handle's ids left the ledger")
	ledger.Free(other)
	assert.Equal(t, 0, ledger.ActiveCount())
}

func TestLedger_StaleFreeCannotTouchReusedIDs(t *testing.T) {
	ledger := NewResourceLedger(1)

	stale := ledger.Allocate(1)
	ledger.Free(stale)

	// The successor reuses the stale handle's integers.
	successor := ledger.Allocate(1)
	require.Equal(t, stale.ID, successor.ID)

	ledger.Free(stale)
	assert.Equal(t, 2, ledger.ActiveCount(),
		"a stale double free must not free the successor's ids")
}
