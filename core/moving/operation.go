package moving

import (
	"github.com/google/uuid"

	"github.com/w2sv/filenavigator/core/observing"
)

// =============================================================================
// Operation
// =============================================================================

// Operation is the closed union of destination-selection strategies. Every
// variant carries the candidate file and a resolved destination directory.
type Operation interface {
	// Candidate returns the file being moved.
	Candidate() observing.CandidateFile

	// Destination returns the resolved destination directory.
	Destination() string

	// PartOfBatch reports whether the operation belongs to a batch resolved
	// in one picker interaction.
	PartOfBatch() bool

	// AutoMoved reports whether the operation ran without user interaction.
	AutoMoved() bool

	// sealed keeps the union closed.
	sealed()
}

// =============================================================================
// Variants
// =============================================================================

// FileDestinationPicked is a single file whose destination the user picked at
// file level.
type FileDestinationPicked struct {
	File observing.CandidateFile
	Dest string
}

// DirectoryDestinationPicked is a move to a user-picked directory, possibly
// as part of a batch.
type DirectoryDestinationPicked struct {
	File    observing.CandidateFile
	Dest    string
	BatchID uuid.UUID
	Batch   bool
}

// QuickMove reuses a previously confirmed destination without re-prompting.
type QuickMove struct {
	File    observing.CandidateFile
	Dest    string
	BatchID uuid.UUID
	Batch   bool
}

// AutoMove is the fully automatic, policy-driven strategy.
type AutoMove struct {
	File observing.CandidateFile
	Dest string
}

func (op FileDestinationPicked) Candidate() observing.CandidateFile { return op.File }
func (op FileDestinationPicked) Destination() string                { return op.Dest }
func (op FileDestinationPicked) PartOfBatch() bool                  { return false }
func (op FileDestinationPicked) AutoMoved() bool                    { return false }
func (op FileDestinationPicked) sealed()                            {}

func (op DirectoryDestinationPicked) Candidate() observing.CandidateFile { return op.File }
func (op DirectoryDestinationPicked) Destination() string                { return op.Dest }
func (op DirectoryDestinationPicked) PartOfBatch() bool                  { return op.Batch }
func (op DirectoryDestinationPicked) AutoMoved() bool                    { return false }
func (op DirectoryDestinationPicked) sealed()                            {}

func (op QuickMove) Candidate() observing.CandidateFile { return op.File }
func (op QuickMove) Destination() string                { return op.Dest }
func (op QuickMove) PartOfBatch() bool                  { return op.Batch }
func (op QuickMove) AutoMoved() bool                    { return false }
func (op QuickMove) sealed()                            {}

func (op AutoMove) Candidate() observing.CandidateFile { return op.File }
func (op AutoMove) Destination() string                { return op.Dest }
func (op AutoMove) PartOfBatch() bool                  { return false }
func (op AutoMove) AutoMoved() bool                    { return true }
func (op AutoMove) sealed()                            {}

// =============================================================================
// Batch construction
// =============================================================================

// NewDirectoryBatch builds directory-destination operations for several
// candidates resolved in one picker interaction. Each member executes and
// reports independently; partial failure does not roll back successes.
func NewDirectoryBatch(files []observing.CandidateFile, dest string) []Operation {
	batchID := uuid.New()
	batch := len(files) > 1

	ops := make([]Operation, 0, len(files))
	for _, file := range files {
		ops = append(ops, DirectoryDestinationPicked{
			File:    file,
			Dest:    dest,
			BatchID: batchID,
			Batch:   batch,
		})
	}
	return ops
}

// NewQuickMoveBatch builds quick-move operations toward a previously
// confirmed destination.
func NewQuickMoveBatch(files []observing.CandidateFile, dest string) []Operation {
	batchID := uuid.New()
	batch := len(files) > 1

	ops := make([]Operation, 0, len(files))
	for _, file := range files {
		ops = append(ops, QuickMove{
			File:    file,
			Dest:    dest,
			BatchID: batchID,
			Batch:   batch,
		})
	}
	return ops
}
