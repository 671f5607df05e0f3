// Package classify maps raw media index metadata to the domain file-type and
// source-type taxonomy, subject to per-pair enablement configuration.
package classify

import "strings"

// =============================================================================
// SourceType
// =============================================================================

// SourceType is the directory-heuristic-derived origin category of a file.
type SourceType int

const (
	// SourceCamera covers files produced by the camera (DCIM).
	SourceCamera SourceType = iota

	// SourceScreenshot covers screen captures.
	SourceScreenshot

	// SourceRecording covers audio recordings.
	SourceRecording

	// SourceDownload covers browser and app downloads.
	SourceDownload

	// SourceOtherApp covers files dropped by third-party apps.
	SourceOtherApp
)

// AllSourceTypes lists every source type in ordinal order.
var AllSourceTypes = []SourceType{
	SourceCamera,
	SourceScreenshot,
	SourceRecording,
	SourceDownload,
	SourceOtherApp,
}

// String returns the stable name used in configuration and history entries.
func (s SourceType) String() string {
	switch s {
	case SourceCamera:
		return "camera"
	case SourceScreenshot:
		return "screenshot"
	case SourceRecording:
		return "recording"
	case SourceDownload:
		return "download"
	case SourceOtherApp:
		return "other_app"
	default:
		return "unknown"
	}
}

// SourceTypeFromDir derives the source type from a volume-relative directory
// path via ordered substring tests. The screenshot test MUST precede the
// DCIM test: screenshot directories can be nested under the camera directory.
func SourceTypeFromDir(volumeRelativeDir string) SourceType {
	dir := strings.ToLower(volumeRelativeDir)

	switch {
	case strings.Contains(dir, "screenshot"):
		return SourceScreenshot
	case strings.Contains(dir, "dcim"):
		return SourceCamera
	case strings.Contains(dir, "recording") || strings.Contains(dir, "recorder"):
		return SourceRecording
	case strings.Contains(dir, "download"):
		return SourceDownload
	default:
		return SourceOtherApp
	}
}
