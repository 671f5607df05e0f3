// Package mediastore provides read-only access to the device's shared media
// index: single-row metadata queries keyed by item URI and per-category
// change-notification subscriptions.
package mediastore

import (
	"errors"
	"strings"
)

// =============================================================================
// Category
// =============================================================================

// Category identifies a watched media index collection. Each category has its
// own content URI and its own change-notification stream.
type Category int

const (
	// CategoryImages covers the image collection (DCIM, Pictures, Screenshots).
	CategoryImages Category = iota

	// CategoryVideos covers the video collection.
	CategoryVideos

	// CategoryAudio covers the audio collection (recordings included).
	CategoryAudio

	// CategoryDownloads covers the downloads collection.
	CategoryDownloads
)

// AllCategories lists every watchable category in ordinal order.
var AllCategories = []Category{
	CategoryImages,
	CategoryVideos,
	CategoryAudio,
	CategoryDownloads,
}

// ErrUnknownCategory indicates a category name could not be parsed.
var ErrUnknownCategory = errors.New("unknown media category")

// String returns the stable name used in URIs and configuration.
func (c Category) String() string {
	switch c {
	case CategoryImages:
		return "images"
	case CategoryVideos:
		return "videos"
	case CategoryAudio:
		return "audio"
	case CategoryDownloads:
		return "downloads"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category from its stable name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "images":
		return CategoryImages, nil
	case "videos":
		return CategoryVideos, nil
	case "audio":
		return CategoryAudio, nil
	case "downloads":
		return CategoryDownloads, nil
	default:
		return 0, ErrUnknownCategory
	}
}
