package observing

import (
	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// CandidateFile
// =============================================================================

// CandidateFile is the canonical event emitted by the observation pipeline:
// a newly detected file judged interesting and not a duplicate, pending, or
// self-caused artifact. Immutable; produced once per genuinely new underlying
// file and consumed by exactly one downstream action.
type CandidateFile struct {
	Ref        mediastore.ItemReference
	Metadata   mediastore.ItemMetadata
	FileType   classify.FileType
	SourceType classify.SourceType
}
