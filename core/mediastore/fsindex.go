package mediastore

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// =============================================================================
// Constants
// =============================================================================

// DefaultDebounce is the default debounce interval for change signals. A file
// being written in chunks produces a burst of raw events; debouncing collapses
// the burst per path while still letting a finalized file re-notify.
const DefaultDebounce = 100 * time.Millisecond

// ownWriteTTL bounds how long a self-write flag stays armed if the expected
// change signal never arrives.
const ownWriteTTL = 5 * time.Second

// signalBuffer is the capacity of a category's signal channel.
const signalBuffer = 64

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNoRoots indicates the index was configured without any category roots.
	ErrNoRoots = errors.New("no category roots configured")

	// ErrRootNotDirectory indicates a configured root is not a directory.
	ErrRootNotDirectory = errors.New("category root is not a directory")

	// ErrInvalidPattern indicates an exclude pattern could not be compiled.
	ErrInvalidPattern = errors.New("invalid exclude pattern")

	// ErrAlreadySubscribed indicates a second subscription for a category.
	ErrAlreadySubscribed = errors.New("category already has an active subscription")
)

// =============================================================================
// FSIndexConfig
// =============================================================================

// FSIndexConfig configures a filesystem-backed media index.
type FSIndexConfig struct {
	// VolumeRoot is the directory all volume-relative paths are computed
	// against.
	VolumeRoot string

	// CategoryRoots maps each category to the directories belonging to its
	// collection. Paths may be absolute or relative to VolumeRoot.
	CategoryRoots map[Category][]string

	// ExcludePatterns are glob patterns for paths to ignore.
	ExcludePatterns []string

	// Debounce is the per-path interval raw events are collapsed over.
	// Default is 100ms.
	Debounce time.Duration
}

// =============================================================================
// FSIndex
// =============================================================================

// rowRecord tracks the index row assigned to an on-disk path.
type rowRecord struct {
	rowID     string
	firstSeen time.Time
}

// pendingSignal tracks a debounced raw event.
type pendingSignal struct {
	timer *time.Timer
}

// FSIndex is a filesystem-backed Index. It assigns a fresh row to every newly
// observed path, serves single-row stat-backed queries, and turns fsnotify
// events into per-category change signals.
type FSIndex struct {
	config   FSIndexConfig
	excludes []glob.Glob
	logger   *slog.Logger

	mu        sync.Mutex
	nextRow   int64
	rows      map[string]string     // rowID -> absolute path
	paths     map[string]rowRecord  // absolute path -> row
	ownWrites map[string]time.Time  // absolute path -> armed at
	active    map[Category]struct{} // live subscriptions
}

// NewFSIndex creates a filesystem-backed index. Returns an error if no roots
// are configured or a pattern cannot be compiled.
func NewFSIndex(config FSIndexConfig, logger *slog.Logger) (*FSIndex, error) {
	if len(config.CategoryRoots) == 0 {
		return nil, ErrNoRoots
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	excludes, err := compileExcludePatterns(config.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	return &FSIndex{
		config:    config,
		excludes:  excludes,
		logger:    logger.With("component", "fsindex"),
		rows:      make(map[string]string),
		paths:     make(map[string]rowRecord),
		ownWrites: make(map[string]time.Time),
		active:    make(map[Category]struct{}),
	}, nil
}

// compileExcludePatterns compiles glob patterns for exclusion matching.
func compileExcludePatterns(patterns []string) ([]glob.Glob, error) {
	excludes := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		excludes = append(excludes, g)
	}
	return excludes, nil
}

// =============================================================================
// Query
// =============================================================================

// Query implements Index. Any failure to reach the row, including the file
// having vanished between notification and query, maps to ErrNotFound.
func (ix *FSIndex) Query(ref ItemReference) (ItemMetadata, error) {
	ix.mu.Lock()
	absPath, ok := ix.rows[ref.RowID()]
	var firstSeen time.Time
	if ok {
		firstSeen = ix.paths[absPath].firstSeen
	}
	ix.mu.Unlock()

	if !ok {
		return ItemMetadata{}, ErrNotFound
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return ItemMetadata{}, ErrNotFound
	}
	if info.IsDir() {
		return ItemMetadata{}, ErrNotFound
	}

	displayName, pending, trashed := markerState(filepath.Base(absPath))

	dateAdded := firstSeen
	if dateAdded.IsZero() {
		dateAdded = info.ModTime()
	}

	return NewItemMetadata(
		ref.RowID(),
		absPath,
		ix.volumeRelativeDir(absPath),
		displayName,
		dateAdded,
		info.Size(),
		pending,
		trashed,
	), nil
}

// volumeRelativeDir returns the directory of a path relative to the volume
// root, using forward slashes.
func (ix *FSIndex) volumeRelativeDir(absPath string) string {
	dir := filepath.Dir(absPath)
	rel, err := filepath.Rel(ix.config.VolumeRoot, dir)
	if err != nil || rel == ".." || len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// =============================================================================
// Self-notification suppression
// =============================================================================

// MarkOwnWrite implements Index.
func (ix *FSIndex) MarkOwnWrite(absolutePath string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.ownWrites[absolutePath] = time.Now()
}

// consumeOwnWrite reports whether a path's next change signal should be
// swallowed, consuming the flag.
func (ix *FSIndex) consumeOwnWrite(absolutePath string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	armedAt, ok := ix.ownWrites[absolutePath]
	if !ok {
		return false
	}
	delete(ix.ownWrites, absolutePath)
	return time.Since(armedAt) <= ownWriteTTL
}

// =============================================================================
// Row assignment
// =============================================================================

// rowFor returns the reference for a path, assigning a fresh row on first
// sight.
func (ix *FSIndex) rowFor(category Category, absPath string, seenAt time.Time) ItemReference {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if rec, ok := ix.paths[absPath]; ok {
		return RefForRow(category, rec.rowID)
	}

	ix.nextRow++
	rowID := strconv.FormatInt(ix.nextRow, 10)
	ix.paths[absPath] = rowRecord{rowID: rowID, firstSeen: seenAt}
	ix.rows[rowID] = absPath
	return RefForRow(category, rowID)
}

// existingRow returns the reference for a path if a row is already assigned.
func (ix *FSIndex) existingRow(category Category, absPath string) (ItemReference, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rec, ok := ix.paths[absPath]
	if !ok {
		return ItemReference{}, false
	}
	return RefForRow(category, rec.rowID), true
}

// dropRow forgets a path's row so a recreated file gets a fresh one. The
// rowID -> path mapping goes too, which makes in-flight queries for the row
// resolve to ErrNotFound, matching the vanished-row contract.
func (ix *FSIndex) dropRow(absPath string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rec, ok := ix.paths[absPath]
	if !ok {
		return
	}
	delete(ix.paths, absPath)
	delete(ix.rows, rec.rowID)
}

// =============================================================================
// Subscribe
// =============================================================================

// Subscribe implements Index. A dedicated goroutine consumes raw fsnotify
// events for the category's roots, debounces them per path, and emits change
// signals until the context is cancelled.
func (ix *FSIndex) Subscribe(ctx context.Context, category Category) (<-chan ChangeSignal, error) {
	roots, err := ix.resolveRoots(category)
	if err != nil {
		return nil, err
	}

	ix.mu.Lock()
	if _, ok := ix.active[category]; ok {
		ix.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	ix.active[category] = struct{}{}
	ix.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		ix.release(category)
		return nil, err
	}

	for _, root := range roots {
		if err := addDirectoryRecursive(watcher, root, ix.isExcluded); err != nil {
			watcher.Close()
			ix.release(category)
			return nil, err
		}
	}

	sub := &categorySubscription{
		index:    ix,
		category: category,
		watcher:  watcher,
		signals:  make(chan ChangeSignal, signalBuffer),
		pending:  make(map[string]*pendingSignal),
		debounce: ix.config.Debounce,
	}

	go sub.run(ctx)

	return sub.signals, nil
}

// resolveRoots validates and absolutizes a category's configured roots.
func (ix *FSIndex) resolveRoots(category Category) ([]string, error) {
	configured := ix.config.CategoryRoots[category]
	if len(configured) == 0 {
		return nil, ErrNotSubscribed
	}

	roots := make([]string, 0, len(configured))
	for _, root := range configured {
		if !filepath.IsAbs(root) {
			root = filepath.Join(ix.config.VolumeRoot, root)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, ErrRootNotDirectory
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// release frees a category's subscription slot.
func (ix *FSIndex) release(category Category) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.active, category)
}

// isExcluded checks whether a path matches any exclusion pattern.
func (ix *FSIndex) isExcluded(path string) bool {
	for _, pattern := range ix.excludes {
		if pattern.Match(path) || pattern.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// addDirectoryRecursive adds a directory and all its subdirectories to the
// watcher.
func addDirectoryRecursive(watcher *fsnotify.Watcher, root string, excluded func(string) bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip paths with errors
		}
		if !d.IsDir() {
			return nil
		}
		if excluded(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// =============================================================================
// categorySubscription
// =============================================================================

// categorySubscription owns one category's event loop.
type categorySubscription struct {
	index    *FSIndex
	category Category
	watcher  *fsnotify.Watcher
	signals  chan ChangeSignal
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSignal
	stopped bool
}

// run consumes raw events until the context is cancelled.
func (s *categorySubscription) run(ctx context.Context) {
	defer s.cleanup()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleRawEvent(event)
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleRawEvent processes one fsnotify event.
func (s *categorySubscription) handleRawEvent(event fsnotify.Event) {
	if s.index.isExcluded(event.Name) {
		return
	}

	// New subdirectories must join the watch set for recursion to hold.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addDirectoryRecursive(s.watcher, event.Name, s.index.isExcluded)
			return
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		s.handleVanished(event.Name)
		return
	}

	s.scheduleSignal(event.Name)
}

// handleVanished emits a signal for a removed or renamed-away path if a row
// existed, then forgets the row so a later recreation gets a fresh one.
func (s *categorySubscription) handleVanished(absPath string) {
	ref, ok := s.index.existingRow(s.category, absPath)
	s.index.dropRow(absPath)
	if !ok {
		return
	}
	s.emit(ChangeSignal{Ref: ref, Time: time.Now()})
}

// scheduleSignal debounces one path's raw event burst into a single signal.
func (s *categorySubscription) scheduleSignal(absPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if existing, ok := s.pending[absPath]; ok {
		existing.timer.Reset(s.debounce)
		return
	}

	s.pending[absPath] = &pendingSignal{
		timer: time.AfterFunc(s.debounce, func() {
			s.fire(absPath)
		}),
	}
}

// fire emits the debounced signal for a path. The own-write flag is consumed
// here, at debounced-signal granularity, so a copy fallback's burst of raw
// Create and Write events collapses into one suppressed signal instead of
// spending the flag on the first event and re-emitting the rest.
func (s *categorySubscription) fire(absPath string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, absPath)
	s.mu.Unlock()

	now := time.Now()
	// Assign the row before the suppression check: a suppressed own write
	// still has to be queryable later.
	ref := s.index.rowFor(s.category, absPath, now)

	if s.index.consumeOwnWrite(absPath) {
		s.index.logger.Debug("suppressed self-triggered signal", "path", absPath)
		return
	}

	s.emit(ChangeSignal{Ref: ref, Time: now})
}

// emit delivers a signal, dropping it if the consumer has fallen behind.
func (s *categorySubscription) emit(signal ChangeSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	select {
	case s.signals <- signal:
	default:
		s.index.logger.Debug("dropped change signal", "uri", signal.Ref.URI())
	}
}

// cleanup stops timers, closes the watcher, frees the category's
// subscription slot, and finally closes the signal channel. The slot is
// released before the close so that a consumer that has drained the channel
// can immediately re-subscribe the category.
func (s *categorySubscription) cleanup() {
	s.mu.Lock()
	s.stopped = true
	for _, p := range s.pending {
		p.timer.Stop()
	}
	s.pending = make(map[string]*pendingSignal)
	s.mu.Unlock()

	s.watcher.Close()
	s.index.release(s.category)
	close(s.signals)
}
