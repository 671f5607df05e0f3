package observing

import (
	"time"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Manual-move correlation window
// =============================================================================

// DefaultManualMoveWindow is the correlation threshold: a fetch failure at
// time T followed within this window by a signal for a different item is
// treated as the same file having been manually relocated outside the app.
// A best-effort heuristic with acknowledged false-positive/negative risk;
// the tuning is a product decision, deliberately left as configured behavior.
const DefaultManualMoveWindow = 500 * time.Millisecond

// moveWindow tracks the most recent possible manual-move source. It is
// evaluated lazily on the next signal, so no timer resource is held. Only
// ever touched from its observer's goroutine.
type moveWindow struct {
	window time.Duration

	ref mediastore.ItemReference
	at  time.Time
}

// newMoveWindow creates a window; non-positive thresholds fall back to the
// default.
func newMoveWindow(window time.Duration) *moveWindow {
	if window <= 0 {
		window = DefaultManualMoveWindow
	}
	return &moveWindow{window: window}
}

// Record notes that an item's row vanished before it could be queried.
func (w *moveWindow) Record(ref mediastore.ItemReference, at time.Time) {
	w.ref = ref
	w.at = at
}

// Correlates reports whether a signal for another item arrived close enough
// to the recorded vanish to be the same file under a new row. A correlated
// hit consumes the recorded source.
func (w *moveWindow) Correlates(ref mediastore.ItemReference, at time.Time) bool {
	if w.ref.IsZero() || ref.URI() == w.ref.URI() {
		return false
	}
	if at.Sub(w.at) < 0 || at.Sub(w.at) > w.window {
		return false
	}
	w.ref = mediastore.ItemReference{}
	return true
}
