package classify

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Cache sizing for the directory -> source-type memoization. Values are
	// deliberately small: the working set is the handful of directories the
	// device actually writes into.
	dirCacheCounters = 1 << 12
	dirCacheMaxCost  = 1 << 10
	dirCacheBuffer   = 64
	dirCacheTTL      = 5 * time.Minute
)

// =============================================================================
// Classification
// =============================================================================

// Classification is the (FileType, SourceType) pair assigned to a file.
type Classification struct {
	FileType   FileType
	SourceType SourceType
}

// =============================================================================
// Classifier
// =============================================================================

// Classifier maps item metadata to a Classification, honoring the enablement
// snapshot passed per call. Returning ok=false is the common "uninteresting
// file" path and is cheap.
type Classifier struct {
	nonMedia []FileType
	dirCache *ristretto.Cache
	logger   *slog.Logger
}

// NewClassifier creates a classifier. User-defined types participate in
// non-media first-match lookup after the built-ins; catch-all types are
// deferred to the very end so they cannot shadow extension-specific siblings.
func NewClassifier(userTypes []FileType, logger *slog.Logger) (*Classifier, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: dirCacheCounters,
		MaxCost:     dirCacheMaxCost,
		BufferItems: dirCacheBuffer,
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Classifier{
		nonMedia: orderNonMedia(userTypes),
		dirCache: cache,
		logger:   logger.With("component", "classifier"),
	}, nil
}

// orderNonMedia builds the deterministic check order: built-ins, then
// extension-specific user types, then catch-alls.
func orderNonMedia(userTypes []FileType) []FileType {
	ordered := NonMediaBuiltins()
	var catchAlls []FileType
	for _, ft := range userTypes {
		if ft.IsCatchAll() {
			catchAlls = append(catchAlls, ft)
			continue
		}
		ordered = append(ordered, ft)
	}
	return append(ordered, catchAlls...)
}

// Close releases the memoization cache.
func (c *Classifier) Close() {
	c.dirCache.Close()
}

// =============================================================================
// Classify
// =============================================================================

// Classify assigns a (FileType, SourceType) pair to the item, or reports
// ok=false when no enabled type matches.
func (c *Classifier) Classify(meta mediastore.ItemMetadata, category mediastore.Category, enablement *Enablement) (Classification, bool) {
	source := c.sourceTypeFor(meta.VolumeRelativeDir)

	if fileType, ok := mediaTypeFor(category, meta.FileExtension); ok {
		if !enablement.IsEnabled(fileType, source) {
			return Classification{}, false
		}
		return Classification{FileType: fileType, SourceType: source}, true
	}

	return c.classifyNonMedia(meta.FileExtension, source, enablement)
}

// mediaTypeFor resolves the media collections to their file type. Within the
// image collection the animated subtype is claimed by extension before the
// primary type, which matches everything else.
func mediaTypeFor(category mediastore.Category, ext string) (FileType, bool) {
	switch category {
	case mediastore.CategoryImages:
		if ext == "gif" {
			return GIF, true
		}
		return Image, true
	case mediastore.CategoryVideos:
		return Video, true
	case mediastore.CategoryAudio:
		return Audio, true
	default:
		return FileType{}, false
	}
}

// classifyNonMedia performs first-match extension lookup among enabled
// non-media types.
func (c *Classifier) classifyNonMedia(ext string, source SourceType, enablement *Enablement) (Classification, bool) {
	if ext == "" {
		return Classification{}, false
	}

	for _, ft := range c.nonMedia {
		if !enablement.IsEnabled(ft, source) {
			continue
		}
		if ft.MatchesExtension(ext) {
			return Classification{FileType: ft, SourceType: source}, true
		}
	}

	return Classification{}, false
}

// =============================================================================
// Source-type memoization
// =============================================================================

// sourceTypeFor memoizes the pure directory -> source-type derivation.
func (c *Classifier) sourceTypeFor(volumeRelativeDir string) SourceType {
	if value, found := c.dirCache.Get(volumeRelativeDir); found {
		if source, ok := value.(SourceType); ok {
			return source
		}
	}

	source := SourceTypeFromDir(volumeRelativeDir)
	c.dirCache.SetWithTTL(volumeRelativeDir, source, 1, dirCacheTTL)
	return source
}
