package mediastore

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotFound indicates the referenced row no longer exists in the index.
	// This is a frequent, legitimate outcome: the file vanished between the
	// change notification and the query.
	ErrNotFound = errors.New("media index row not found")

	// ErrNotSubscribed indicates a subscription was requested for a category
	// the index is not configured to serve.
	ErrNotSubscribed = errors.New("category has no configured roots")
)

// =============================================================================
// ChangeSignal
// =============================================================================

// ChangeSignal is one raw change notification from the index. It carries only
// the item reference; all metadata must be re-queried, since the signal races
// with the file still being written.
type ChangeSignal struct {
	// Ref references the changed row.
	Ref ItemReference

	// Time is when the change was observed.
	Time time.Time
}

// =============================================================================
// Index
// =============================================================================

// Index is the read side of the media index: single-row column queries plus
// per-category change subscriptions.
type Index interface {
	// Query fetches the fixed column set for one row. Returns ErrNotFound if
	// the row has vanished.
	Query(ref ItemReference) (ItemMetadata, error)

	// Subscribe starts delivering change signals for a category. The returned
	// channel is closed when the context is cancelled. At most one active
	// subscription per category is supported.
	Subscribe(ctx context.Context, category Category) (<-chan ChangeSignal, error)

	// MarkOwnWrite flags a path as about to be written by this process, so
	// that the resulting change signal is suppressed (self-notification
	// suppression). The flag is consumed by the next signal for that path.
	MarkOwnWrite(absolutePath string)
}
