package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrInvalidUserType indicates a user-defined type could not be built.
	ErrInvalidUserType = errors.New("invalid user-defined file type")
)

// =============================================================================
// FileType
// =============================================================================

// FileType is one member of the closed file-type taxonomy: the built-in types
// below plus a small number of user-defined extension-based types constructed
// at configuration load. Identity is by stable ordinal.
type FileType struct {
	ordinal int
	name    string
	color   string
	icon    string
	media   bool

	// category binds media types to their index collection.
	category mediastore.Category

	// extensions drives first-match lookup for non-media and user types.
	// Empty for media types, whose kind is fixed by their collection.
	extensions []glob.Glob
	catchAll   bool

	// sources are the origin categories this type can come from.
	sources []SourceType
}

// Built-in file types. Ordinals are stable and must not be reordered.
var (
	// Image matches everything in the image collection not claimed by GIF.
	Image = FileType{
		ordinal:  0,
		name:     "Image",
		color:    "#2EB77C",
		icon:     "image",
		media:    true,
		category: mediastore.CategoryImages,
		sources:  []SourceType{SourceCamera, SourceScreenshot, SourceDownload, SourceOtherApp},
	}

	// GIF is the animated-image subtype, claimed before Image by extension.
	GIF = FileType{
		ordinal:  1,
		name:     "GIF",
		color:    "#49C868",
		icon:     "gif",
		media:    true,
		category: mediastore.CategoryImages,
		sources:  []SourceType{SourceDownload, SourceOtherApp},
	}

	Video = FileType{
		ordinal:  2,
		name:     "Video",
		color:    "#D53BF1",
		icon:     "video",
		media:    true,
		category: mediastore.CategoryVideos,
		sources:  []SourceType{SourceCamera, SourceDownload, SourceOtherApp},
	}

	Audio = FileType{
		ordinal:  3,
		name:     "Audio",
		color:    "#EB5C54",
		icon:     "audio",
		media:    true,
		category: mediastore.CategoryAudio,
		sources:  []SourceType{SourceRecording, SourceDownload, SourceOtherApp},
	}

	PDF      = mustExtensionType(4, "PDF", "#E33039", "pdf", []string{"pdf"})
	Text     = mustExtensionType(5, "Text", "#F16C32", "text", []string{"txt", "text", "md", "markdown", "rtf", "csv", "log"})
	Archive  = mustExtensionType(6, "Archive", "#8AA7B1", "archive", []string{"zip", "tar", "gz", "tgz", "rar", "7z", "bz2", "xz"})
	APK      = mustExtensionType(7, "APK", "#6FCBDC", "apk", []string{"apk"})
)

// userTypeOrdinalBase is the first ordinal available to user-defined types.
const userTypeOrdinalBase = 16

// BuiltinTypes lists the built-in taxonomy in ordinal order.
func BuiltinTypes() []FileType {
	return []FileType{Image, GIF, Video, Audio, PDF, Text, Archive, APK}
}

// NonMediaBuiltins lists the extension-matched built-ins in check order.
func NonMediaBuiltins() []FileType {
	return []FileType{PDF, Text, Archive, APK}
}

// mustExtensionType builds a built-in extension-matched type.
func mustExtensionType(ordinal int, name, color, icon string, extensions []string) FileType {
	ft, err := newExtensionType(ordinal, name, color, icon, extensions)
	if err != nil {
		panic(err)
	}
	return ft
}

func newExtensionType(ordinal int, name, color, icon string, patterns []string) (FileType, error) {
	if name == "" {
		return FileType{}, fmt.Errorf("%w: empty name", ErrInvalidUserType)
	}
	if len(patterns) == 0 {
		return FileType{}, fmt.Errorf("%w %q: no extension patterns", ErrInvalidUserType, name)
	}

	globs := make([]glob.Glob, 0, len(patterns))
	catchAll := false
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(pattern), "."))
		if pattern == "*" {
			catchAll = true
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return FileType{}, fmt.Errorf("%w %q: pattern %q: %v", ErrInvalidUserType, name, pattern, err)
		}
		globs = append(globs, g)
	}

	return FileType{
		ordinal:    ordinal,
		name:       name,
		color:      color,
		icon:       icon,
		extensions: globs,
		catchAll:   catchAll,
		sources:    []SourceType{SourceDownload, SourceOtherApp},
	}, nil
}

// NewUserType builds a user-defined extension-based type. The index is the
// position within the user's declared types and fixes the ordinal.
func NewUserType(index int, name string, patterns []string) (FileType, error) {
	return newExtensionType(userTypeOrdinalBase+index, name, "#A8A29E", "custom", patterns)
}

// =============================================================================
// Accessors
// =============================================================================

// Ordinal returns the stable ordinal.
func (ft FileType) Ordinal() int { return ft.ordinal }

// Name returns the display name.
func (ft FileType) Name() string { return ft.name }

// Color returns the display color.
func (ft FileType) Color() string { return ft.color }

// Icon returns the icon reference.
func (ft FileType) Icon() string { return ft.icon }

// IsMedia reports whether the type is bound to a media collection.
func (ft FileType) IsMedia() bool { return ft.media }

// Category returns the media collection a media type is bound to.
func (ft FileType) Category() mediastore.Category { return ft.category }

// IsCatchAll reports whether the type claims every extension not claimed by a
// sibling. Catch-all types must be evaluated after all extension-specific
// types that could shadow them.
func (ft FileType) IsCatchAll() bool { return ft.catchAll }

// Sources returns the source types this file type can originate from.
func (ft FileType) Sources() []SourceType { return ft.sources }

// Equal reports ordinal identity.
func (ft FileType) Equal(other FileType) bool { return ft.ordinal == other.ordinal }

// String implements fmt.Stringer.
func (ft FileType) String() string { return ft.name }

// MatchesExtension reports whether an extension-matched type claims the given
// extension. Always false for media types.
func (ft FileType) MatchesExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, g := range ft.extensions {
		if g.Match(ext) {
			return true
		}
	}
	return false
}
