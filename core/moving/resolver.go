package moving

import (
	"os"

	"github.com/w2sv/filenavigator/core/classify"
)

// =============================================================================
// AutoDecision
// =============================================================================

// AutoDecision is the outcome of evaluating the auto-move policy for a
// candidate file.
type AutoDecision int

const (
	// AutoDisabled means the pair has no auto-move policy; the candidate
	// awaits a user decision.
	AutoDisabled AutoDecision = iota

	// AutoReady means the saved destination is valid; the move can skip the
	// notification entirely.
	AutoReady

	// AutoDestinationMissing means auto-move is enabled but its saved
	// destination no longer exists or is not writable. The policy is "ask
	// once per failure": the user is informed via a follow-up notification,
	// and auto-move is NOT silently disabled.
	AutoDestinationMissing
)

// String returns the decision name.
func (d AutoDecision) String() string {
	switch d {
	case AutoDisabled:
		return "auto_disabled"
	case AutoReady:
		return "auto_ready"
	case AutoDestinationMissing:
		return "auto_destination_missing"
	default:
		return "unknown"
	}
}

// =============================================================================
// DecideAuto
// =============================================================================

// DecideAuto evaluates the auto-move policy of a (FileType, SourceType) pair.
// The returned destination is meaningful for AutoReady and
// AutoDestinationMissing.
func DecideAuto(cfg classify.SourceConfig) (AutoDecision, string) {
	if !cfg.AutoMove.Enabled {
		return AutoDisabled, ""
	}

	dest := cfg.AutoMove.Destination
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() || !writable(dest) {
		return AutoDestinationMissing, dest
	}

	return AutoReady, dest
}
