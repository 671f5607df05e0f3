package mediastore

import (
	"fmt"
	"strings"
)

// =============================================================================
// ItemReference
// =============================================================================

// uriScheme is the scheme used for media index item URIs.
const uriScheme = "media://"

// ItemReference is an opaque handle to a row in the media index. It wraps the
// row's content URI; identity is by URI equality.
type ItemReference struct {
	uri string
}

// NewItemReference wraps a raw content URI.
func NewItemReference(uri string) ItemReference {
	return ItemReference{uri: uri}
}

// RefForRow builds the reference for a row in a category collection.
func RefForRow(category Category, rowID string) ItemReference {
	return ItemReference{uri: uriScheme + category.String() + "/" + rowID}
}

// URI returns the underlying content URI.
func (r ItemReference) URI() string {
	return r.uri
}

// IsZero reports whether the reference is the zero value.
func (r ItemReference) IsZero() bool {
	return r.uri == ""
}

// RowID returns the row identifier component of the URI, or "" if the URI does
// not follow the media scheme.
func (r ItemReference) RowID() string {
	rest, ok := strings.CutPrefix(r.uri, uriScheme)
	if !ok {
		return ""
	}
	_, rowID, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return rowID
}

// String implements fmt.Stringer.
func (r ItemReference) String() string {
	return r.uri
}

var _ fmt.Stringer = ItemReference{}
