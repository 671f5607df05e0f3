package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// allEnabled builds a snapshot with every pair of the given types enabled.
func allEnabled(t *testing.T, types ...FileType) *Enablement {
	t.Helper()

	var entries []EnablementEntry
	for _, ft := range types {
		for _, st := range ft.Sources() {
			entries = append(entries, EnablementEntry{
				FileType:   ft,
				SourceType: st,
				Config:     SourceConfig{Enabled: true},
			})
		}
	}
	e, err := NewEnablement(entries)
	require.NoError(t, err)
	return e
}

func meta(dir, name string) mediastore.ItemMetadata {
	return mediastore.NewItemMetadata("1", "/vol/"+dir+"/"+name, dir, name,
		time.Now(), 1024, false, false)
}

func newTestClassifier(t *testing.T, userTypes ...FileType) *Classifier {
	t.Helper()
	c, err := NewClassifier(userTypes, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClassify_CameraImage(t *testing.T) {
	c := newTestClassifier(t)
	e := allEnabled(t, Image)

	got, ok := c.Classify(meta("DCIM/Camera", "IMG_001.jpg"), mediastore.CategoryImages, e)
	require.True(t, ok)
	assert.True(t, got.FileType.Equal(Image))
	assert.Equal(t, SourceCamera, got.SourceType)
}

// A gif must resolve to exactly one type even though the primary image type
// matches everything in the collection.
func TestClassify_GIFClaimedBeforeImage(t *testing.T) {
	c := newTestClassifier(t)
	e := allEnabled(t, Image, GIF)

	got, ok := c.Classify(meta("Download", "loop.gif"), mediastore.CategoryImages, e)
	require.True(t, ok)
	assert.True(t, got.FileType.Equal(GIF))
	assert.Equal(t, SourceDownload, got.SourceType)

	// Non-gif stays with the primary type.
	got, ok = c.Classify(meta("Download", "photo.png"), mediastore.CategoryImages, e)
	require.True(t, ok)
	assert.True(t, got.FileType.Equal(Image))
}

func TestClassify_DisabledPairReturnsFalse(t *testing.T) {
	c := newTestClassifier(t)

	e, err := NewEnablement([]EnablementEntry{{
		FileType:   Image,
		SourceType: SourceDownload,
		Config:     SourceConfig{Enabled: true},
	}})
	require.NoError(t, err)

	// Camera images are not enabled; downloads are.
	_, ok := c.Classify(meta("DCIM/Camera", "IMG_001.jpg"), mediastore.CategoryImages, e)
	assert.False(t, ok)

	_, ok = c.Classify(meta("Download", "wallpaper.jpg"), mediastore.CategoryImages, e)
	assert.True(t, ok)
}

func TestClassify_NonMediaFirstMatch(t *testing.T) {
	c := newTestClassifier(t)
	e := allEnabled(t, PDF, Text, Archive, APK)

	cases := []struct {
		name string
		want FileType
	}{
		{"report.pdf", PDF},
		{"notes.md", Text},
		{"backup.tar.gz", Archive},
		{"app.apk", APK},
	}
	for _, tc := range cases {
		got, ok := c.Classify(meta("Download", tc.name), mediastore.CategoryDownloads, e)
		require.True(t, ok, tc.name)
		assert.True(t, got.FileType.Equal(tc.want), tc.name)
		assert.Equal(t, SourceDownload, got.SourceType)
	}
}

func TestClassify_UnmatchedExtensionReturnsFalse(t *testing.T) {
	c := newTestClassifier(t)
	e := allEnabled(t, PDF, Text, Archive, APK)

	_, ok := c.Classify(meta("Download", "scene.blend"), mediastore.CategoryDownloads, e)
	assert.False(t, ok)

	_, ok = c.Classify(meta("Download", "noextension"), mediastore.CategoryDownloads, e)
	assert.False(t, ok)
}

// A catch-all user type must not shadow extension-specific siblings.
func TestClassify_CatchAllEvaluatedLast(t *testing.T) {
	ebooks, err := NewUserType(0, "Ebook", []string{"epub", "mobi"})
	require.NoError(t, err)
	rest, err := NewUserType(1, "Everything else", []string{"*"})
	require.NoError(t, err)

	c := newTestClassifier(t, rest, ebooks)
	e := allEnabled(t, PDF, ebooks, rest)

	got, ok := c.Classify(meta("Download", "novel.epub"), mediastore.CategoryDownloads, e)
	require.True(t, ok)
	assert.Equal(t, "Ebook", got.FileType.Name())

	got, ok = c.Classify(meta("Download", "data.sqlite"), mediastore.CategoryDownloads, e)
	require.True(t, ok)
	assert.Equal(t, "Everything else", got.FileType.Name())

	got, ok = c.Classify(meta("Download", "report.pdf"), mediastore.CategoryDownloads, e)
	require.True(t, ok)
	assert.True(t, got.FileType.Equal(PDF))
}

func TestNewEnablement_RejectsAutoMoveWithoutDestination(t *testing.T) {
	_, err := NewEnablement([]EnablementEntry{{
		FileType:   Image,
		SourceType: SourceCamera,
		Config: SourceConfig{
			Enabled:  true,
			AutoMove: AutoMoveConfig{Enabled: true},
		},
	}})
	assert.ErrorIs(t, err, ErrAutoMoveWithoutDestination)
}

func TestNewUserType_Validation(t *testing.T) {
	_, err := NewUserType(0, "", []string{"foo"})
	assert.ErrorIs(t, err, ErrInvalidUserType)

	_, err = NewUserType(0, "NoPatterns", nil)
	assert.ErrorIs(t, err, ErrInvalidUserType)

	ft, err := NewUserType(3, "Fonts", []string{".ttf", "OTF"})
	require.NoError(t, err)
	assert.True(t, ft.MatchesExtension("ttf"))
	assert.True(t, ft.MatchesExtension("otf"))
	assert.False(t, ft.MatchesExtension("woff"))
	assert.Equal(t, userTypeOrdinalBase+3, ft.Ordinal())
}
