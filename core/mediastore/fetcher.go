package mediastore

import "log/slog"

// =============================================================================
// Fetcher
// =============================================================================

// Fetcher performs single-row metadata queries against an Index. Any
// driver-level failure, including the row having vanished between notification
// and query, is reported as not-found rather than propagated: a vanished row
// is a frequent, legitimate outcome and must be discarded silently, never
// retried.
type Fetcher struct {
	index  Index
	logger *slog.Logger
}

// NewFetcher creates a Fetcher backed by the given index.
func NewFetcher(index Index, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		index:  index,
		logger: logger.With("component", "fetcher"),
	}
}

// Fetch queries the fixed column set for one row. The boolean is false when
// the row could not be read, whatever the underlying cause.
func (f *Fetcher) Fetch(ref ItemReference) (ItemMetadata, bool) {
	meta, err := f.index.Query(ref)
	if err != nil {
		f.logger.Debug("row unavailable", "uri", ref.URI(), "err", err)
		return ItemMetadata{}, false
	}
	return meta, true
}
