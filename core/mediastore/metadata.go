package mediastore

import (
	"path"
	"strings"
	"time"
)

// =============================================================================
// Pending / trashed markers
// =============================================================================

// The index marks rows that are still being written or have been soft-deleted
// by renaming the on-disk file with one of these prefixes. A pending row will
// re-notify once finalized, so pending items must be discarded without being
// recorded as seen.
const (
	pendingPrefix = ".pending-"
	trashedPrefix = ".trashed-"
)

// =============================================================================
// ItemMetadata
// =============================================================================

// ItemMetadata is an immutable snapshot of one media index row. It is
// constructed fresh on every fetch and never mutated; derived fields are
// computed eagerly at construction.
type ItemMetadata struct {
	RowID             string
	AbsolutePath      string
	VolumeRelativeDir string
	DisplayName       string
	DateAdded         time.Time
	SizeBytes         int64
	IsPending         bool
	IsTrashed         bool

	// Derived at construction.
	FileExtension string
	DirectoryName string
}

// NewItemMetadata builds a snapshot from raw column values, computing the
// derived extension and directory-name fields.
func NewItemMetadata(rowID, absolutePath, volumeRelativeDir, displayName string, dateAdded time.Time, sizeBytes int64, isPending, isTrashed bool) ItemMetadata {
	return ItemMetadata{
		RowID:             rowID,
		AbsolutePath:      absolutePath,
		VolumeRelativeDir: volumeRelativeDir,
		DisplayName:       displayName,
		DateAdded:         dateAdded,
		SizeBytes:         sizeBytes,
		IsPending:         isPending,
		IsTrashed:         isTrashed,
		FileExtension:     extensionOf(displayName),
		DirectoryName:     path.Base(strings.TrimSuffix(volumeRelativeDir, "/")),
	}
}

// extensionOf returns the substring after the last '.', lowercased, or "".
func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// markerState inspects an on-disk file name for pending/trashed markers and
// returns the display name with any marker stripped.
func markerState(fileName string) (displayName string, pending, trashed bool) {
	switch {
	case strings.HasPrefix(fileName, pendingPrefix):
		return stripMarker(fileName, pendingPrefix), true, false
	case strings.HasPrefix(fileName, trashedPrefix):
		return stripMarker(fileName, trashedPrefix), false, true
	default:
		return fileName, false, false
	}
}

// stripMarker removes "<prefix><expiry>-" from a marked file name. The expiry
// component is opaque; if the name does not follow the marker layout the
// remainder after the prefix is returned as-is.
func stripMarker(fileName, prefix string) string {
	rest := strings.TrimPrefix(fileName, prefix)
	if _, name, ok := strings.Cut(rest, "-"); ok {
		return name
	}
	return rest
}
