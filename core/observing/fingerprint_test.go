package observing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFingerprint_SameFileByURI(t *testing.T) {
	a := fp("media://images/1", "a.jpg", 100)
	b := fp("media://images/1", "renamed.jpg", 9000)
	if !a.SameFile(b) {
		t.Error("matching URIs always denote the same file")
	}
}

func TestFingerprint_SameFileByHashAndName(t *testing.T) {
	a := fp("media://images/1", "a.jpg", 100)
	a.ContentHash = "deadbeef"
	b := fp("media://images/2", "a.jpg", 100)
	b.ContentHash = "deadbeef"
	if !a.SameFile(b) {
		t.Error("hash plus display name identifies a moved/copied file")
	}

	b.DisplayName = "b.jpg"
	if a.SameFile(b) {
		t.Error("name mismatch must not match")
	}
}

func TestFingerprint_NoHashNoCrossURIMatch(t *testing.T) {
	a := fp("media://images/1", "a.jpg", 100)
	b := fp("media://images/2", "a.jpg", 100)
	if a.SameFile(b) {
		t.Error("without hashes, distinct URIs are distinct files")
	}
}

func TestWithContentHash(t *testing.T) {
	dir := t.TempDir()

	pathA := filepath.Join(dir, "a.bin")
	pathB := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(pathA, []byte("identical bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("identical bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	a := fp("media://downloads/1", "a.bin", 15).WithContentHash(pathA)
	b := fp("media://downloads/2", "b.bin", 15).WithContentHash(pathB)

	if a.ContentHash == "" {
		t.Fatal("hash should be computed")
	}
	if a.ContentHash != b.ContentHash {
		t.Error("identical contents must hash identically")
	}

	// Hashing failure degrades to the size-based fingerprint.
	c := fp("media://downloads/3", "c.bin", 1).WithContentHash(filepath.Join(dir, "missing"))
	if c.ContentHash != "" {
		t.Error("unreadable file must leave the fingerprint hashless")
	}
}
