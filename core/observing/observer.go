package observing

import (
	"context"
	"log/slog"
	"time"

	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Collaborator contracts
// =============================================================================

// EmitFunc receives candidate files. Emission is fire-and-forget from the
// observer's perspective; the downstream handler decides between posting a
// notification and triggering an auto-move.
type EmitFunc func(CandidateFile)

// EnablementSource is the reactive read side of the configuration store: a
// current-value snapshot, re-read on every signal so enablement changes apply
// without rebuilding the observer.
type EnablementSource interface {
	Current() *classify.Enablement
}

// =============================================================================
// ObserverConfig
// =============================================================================

// ObserverConfig carries the tunables shared by all observers.
type ObserverConfig struct {
	// RecencyCapacity bounds the recently-seen fingerprint set.
	RecencyCapacity int

	// ManualMoveWindow is the manual-move correlation threshold.
	ManualMoveWindow time.Duration

	// HashFingerprints strengthens fingerprints with a content hash for
	// files no larger than HashMaxBytes.
	HashFingerprints bool
	HashMaxBytes     int64
}

// =============================================================================
// FileObserver
// =============================================================================

// FileObserver watches one media category. It consumes that category's change
// signals strictly sequentially and emits at most one CandidateFile per
// genuinely new file. Every filtering step is a local, silent discard: the
// overwhelming majority of signals are expected to be uninteresting or
// duplicate, and the next real change will re-trigger anything lost.
type FileObserver struct {
	category   mediastore.Category
	fetcher    *mediastore.Fetcher
	classifier *classify.Classifier
	enablement EnablementSource
	emit       EmitFunc
	config     ObserverConfig

	cache  *RecencyCache
	window *moveWindow
	logger *slog.Logger
}

// NewFileObserver creates an observer for one category with its own recency
// cache and correlation window.
func NewFileObserver(
	category mediastore.Category,
	fetcher *mediastore.Fetcher,
	classifier *classify.Classifier,
	enablement EnablementSource,
	emit EmitFunc,
	config ObserverConfig,
	logger *slog.Logger,
) *FileObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileObserver{
		category:   category,
		fetcher:    fetcher,
		classifier: classifier,
		enablement: enablement,
		emit:       emit,
		config:     config,
		cache:      NewRecencyCache(config.RecencyCapacity),
		window:     newMoveWindow(config.ManualMoveWindow),
		logger:     logger.With("component", "observer", "category", category.String()),
	}
}

// Category returns the watched category.
func (o *FileObserver) Category() mediastore.Category {
	return o.category
}

// Run consumes signals until the channel closes. Signals are processed one
// at a time; no two signals for the same category are ever in flight
// concurrently. After cancellation, remaining signals are discarded and Run
// returns only once the subscription has closed the channel, so a caller
// that has waited on Run can immediately re-subscribe the category.
func (o *FileObserver) Run(ctx context.Context, signals <-chan mediastore.ChangeSignal) {
	for {
		select {
		case <-ctx.Done():
			for range signals {
			}
			return
		case signal, ok := <-signals:
			if !ok {
				return
			}
			o.handleSignal(signal)
		}
	}
}

// handleSignal runs one signal through the discard pipeline.
func (o *FileObserver) handleSignal(signal mediastore.ChangeSignal) {
	meta, ok := o.fetcher.Fetch(signal.Ref)
	if !ok {
		// The row vanished before the query ran. Remember it as a possible
		// manual-move source and stop.
		o.window.Record(signal.Ref, signal.Time)
		return
	}

	if meta.IsPending || meta.IsTrashed {
		// Do not cache: a pending file re-notifies once finalized and must
		// then pass the duplicate check.
		o.logger.Debug("discarded pending/trashed item", "uri", signal.Ref.URI())
		return
	}

	fp := o.fingerprint(signal.Ref, meta)

	if o.cache.Contains(fp) {
		o.logger.Debug("discarded duplicate signal", "uri", signal.Ref.URI())
		return
	}

	if o.window.Correlates(signal.Ref, signal.Time) {
		// Very likely the user's own file manager relocating an existing
		// file. Suppress, but record it as a known, already-handled file.
		o.cache.Add(fp)
		o.logger.Debug("discarded likely manual move", "uri", signal.Ref.URI())
		return
	}

	classification, ok := o.classifier.Classify(meta, o.category, o.enablement.Current())
	if !ok {
		// Not of interest. Still cache the fingerprint so every chunked
		// write of an uninteresting file doesn't repeat the work above.
		o.cache.Add(fp)
		return
	}

	o.cache.Add(fp)
	o.emit(CandidateFile{
		Ref:        signal.Ref,
		Metadata:   meta,
		FileType:   classification.FileType,
		SourceType: classification.SourceType,
	})
}

// fingerprint builds the dedup fingerprint, hashing content when configured
// and the file is small enough.
func (o *FileObserver) fingerprint(ref mediastore.ItemReference, meta mediastore.ItemMetadata) Fingerprint {
	fp := NewFingerprint(ref, meta)
	if o.config.HashFingerprints && (o.config.HashMaxBytes <= 0 || meta.SizeBytes <= o.config.HashMaxBytes) {
		fp = fp.WithContentHash(meta.AbsolutePath)
	}
	return fp
}
