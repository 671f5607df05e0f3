// Package observing implements the file-change observation pipeline: it
// consumes raw media index change signals, filters pending/trashed/duplicate/
// self-moved notifications, classifies survivors, and emits one candidate
// event per genuinely new file.
package observing

import (
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Fingerprint
// =============================================================================

// Fingerprint is a cheap identity proxy for duplicate suppression: URI plus
// size, optionally strengthened with a content hash. Two fingerprints denote
// the same underlying file if their URIs match, or if content hash and
// display name both match (a move or copy produces a new row for identical
// bytes).
type Fingerprint struct {
	Ref         mediastore.ItemReference
	DisplayName string
	SizeBytes   int64
	ContentHash string // blake2b-256 hex; "" when hashing is disabled
}

// NewFingerprint builds a size-based fingerprint from a metadata snapshot.
func NewFingerprint(ref mediastore.ItemReference, meta mediastore.ItemMetadata) Fingerprint {
	return Fingerprint{
		Ref:         ref,
		DisplayName: meta.DisplayName,
		SizeBytes:   meta.SizeBytes,
	}
}

// WithContentHash returns a copy carrying the blake2b hash of the file's
// bytes. Hashing failure leaves the size-based fingerprint intact: the hash
// is an optional strengthening, not a requirement.
func (f Fingerprint) WithContentHash(absolutePath string) Fingerprint {
	hash, err := hashFile(absolutePath)
	if err != nil {
		return f
	}
	f.ContentHash = hash
	return f
}

// SameFile reports whether both fingerprints denote the same underlying file.
func (f Fingerprint) SameFile(other Fingerprint) bool {
	if f.Ref.URI() == other.Ref.URI() {
		return true
	}
	return f.ContentHash != "" &&
		f.ContentHash == other.ContentHash &&
		f.DisplayName == other.DisplayName
}

// hashFile computes the blake2b-256 hex digest of a file's contents.
func hashFile(absolutePath string) (string, error) {
	file, err := os.Open(absolutePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
