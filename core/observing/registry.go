package observing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrRegistryRunning indicates Build was called on a running registry.
	// Registering a second observer for a category would cause duplicate
	// event emission; Rebuild must be used instead.
	ErrRegistryRunning = errors.New("observer registry already built")
)

// =============================================================================
// Registry
// =============================================================================

// Registry owns the set of active file observers. Which observer instances
// exist at all is fixed by the categories the current enablement touches;
// per-pair enablement changes within an existing category flow dynamically
// through the EnablementSource and need no rebuild.
type Registry struct {
	index      mediastore.Index
	fetcher    *mediastore.Fetcher
	classifier *classify.Classifier
	enablement EnablementSource
	emit       EmitFunc
	config     ObserverConfig
	logger     *slog.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	observers map[mediastore.Category]*FileObserver
	wg        sync.WaitGroup
}

// NewRegistry creates an idle registry.
func NewRegistry(
	index mediastore.Index,
	fetcher *mediastore.Fetcher,
	classifier *classify.Classifier,
	enablement EnablementSource,
	emit EmitFunc,
	config ObserverConfig,
	logger *slog.Logger,
) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		index:      index,
		fetcher:    fetcher,
		classifier: classifier,
		enablement: enablement,
		emit:       emit,
		config:     config,
		logger:     logger.With("component", "registry"),
	}
}

// Build subscribes one observer per active category. At most one observer per
// category exists at any time. A category that cannot be subscribed is a hard
// error, not a skip: an enabled category silently left without an observer
// would mean total non-delivery. On error, everything already built is torn
// down again.
func (r *Registry) Build(ctx context.Context) error {
	r.mu.Lock()

	if r.observers != nil {
		r.mu.Unlock()
		return ErrRegistryRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.observers = make(map[mediastore.Category]*FileObserver)

	for _, category := range ActiveCategories(r.enablement.Current()) {
		signals, err := r.index.Subscribe(runCtx, category)
		if err != nil {
			cancel()
			r.observers = nil
			r.cancel = nil
			r.mu.Unlock()
			r.wg.Wait()
			return fmt.Errorf("subscribe %s: %w", category.String(), err)
		}

		observer := NewFileObserver(category, r.fetcher, r.classifier, r.enablement, r.emit, r.config, r.logger)
		r.observers[category] = observer

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			observer.Run(runCtx, signals)
		}()

		r.logger.Info("observer registered", "category", category.String())
	}

	r.mu.Unlock()
	return nil
}

// Teardown unregisters all observers and waits for their goroutines. Each
// observer returns only after its subscription has wound down and released
// its category slot, so a following Build can re-subscribe immediately.
func (r *Registry) Teardown() {
	r.mu.Lock()
	if r.observers == nil {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.observers = nil
	r.cancel = nil
	r.mu.Unlock()

	r.wg.Wait()
}

// Rebuild tears down and rebuilds the observer set. Needed only when entire
// categories are toggled on or off.
func (r *Registry) Rebuild(ctx context.Context) error {
	r.Teardown()
	return r.Build(ctx)
}

// ObservedCategories returns the categories currently being observed.
func (r *Registry) ObservedCategories() []mediastore.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	categories := make([]mediastore.Category, 0, len(r.observers))
	for _, category := range mediastore.AllCategories {
		if _, ok := r.observers[category]; ok {
			categories = append(categories, category)
		}
	}
	return categories
}

// ActiveCategories derives the categories that need an observer: each enabled
// media type's own collection, plus downloads when any non-media type is
// enabled.
func ActiveCategories(enablement *classify.Enablement) []mediastore.Category {
	seen := make(map[mediastore.Category]bool)
	var categories []mediastore.Category

	add := func(category mediastore.Category) {
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}

	for _, ft := range enablement.EnabledTypes() {
		if ft.IsMedia() {
			add(ft.Category())
			continue
		}
		add(mediastore.CategoryDownloads)
	}

	return categories
}
