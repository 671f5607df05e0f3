package mediastore

import (
	"testing"
	"time"
)

func TestExtensionOf(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"photo.JPG", "jpg"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
		{".hidden", "hidden"},
	}
	for _, tc := range cases {
		if got := extensionOf(tc.name); got != tc.want {
			t.Errorf("extensionOf(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMarkerState(t *testing.T) {
	cases := []struct {
		fileName string
		display  string
		pending  bool
		trashed  bool
	}{
		{"IMG_0001.jpg", "IMG_0001.jpg", false, false},
		{".pending-1756400000-IMG_0001.jpg", "IMG_0001.jpg", true, false},
		{".trashed-1756400000-IMG_0001.jpg", "IMG_0001.jpg", false, true},
		{".pending-garbled", "garbled", true, false},
	}
	for _, tc := range cases {
		display, pending, trashed := markerState(tc.fileName)
		if display != tc.display || pending != tc.pending || trashed != tc.trashed {
			t.Errorf("markerState(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tc.fileName, display, pending, trashed, tc.display, tc.pending, tc.trashed)
		}
	}
}

func TestNewItemMetadata_DerivedFields(t *testing.T) {
	meta := NewItemMetadata("7", "/vol/DCIM/Camera/IMG.jpg", "DCIM/Camera/", "IMG.jpg",
		time.Now(), 1024, false, false)
	if meta.FileExtension != "jpg" {
		t.Errorf("FileExtension = %q", meta.FileExtension)
	}
	if meta.DirectoryName != "Camera" {
		t.Errorf("DirectoryName = %q", meta.DirectoryName)
	}
}

func TestItemReference(t *testing.T) {
	ref := RefForRow(CategoryImages, "42")
	if ref.URI() != "media://images/42" {
		t.Errorf("URI = %q", ref.URI())
	}
	if ref.RowID() != "42" {
		t.Errorf("RowID = %q", ref.RowID())
	}
	if ref.IsZero() {
		t.Error("built reference must not be zero")
	}
	if !(ItemReference{}).IsZero() {
		t.Error("zero reference must report IsZero")
	}
	if NewItemReference("file:///x").RowID() != "" {
		t.Error("foreign scheme has no row id")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("podcasts"); err == nil {
		t.Error("unknown category must error")
	}
}
