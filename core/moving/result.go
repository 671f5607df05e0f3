// Package moving resolves destinations for candidate files, performs the
// physical moves on a worker pool, and classifies outcomes.
package moving

// =============================================================================
// Result
// =============================================================================

// Result is the terminal outcome of a move operation. Each value maps
// deterministically to a user-facing feedback action; none is ever retried
// automatically.
type Result int

const (
	// ResultSuccess indicates the file was moved.
	ResultSuccess Result = iota

	// ResultInternalError indicates the OS move primitive failed for an
	// unclassified reason.
	ResultInternalError

	// ResultPermissionMissing indicates a missing filesystem permission.
	ResultPermissionMissing

	// ResultFileNotFound indicates the source vanished or was already moved.
	ResultFileNotFound

	// ResultFileAlreadyAtDestination indicates source and destination are
	// already identical.
	ResultFileAlreadyAtDestination

	// ResultInsufficientSpace indicates the destination volume lacks space.
	ResultInsufficientSpace

	// ResultDestinationNotFound indicates the destination directory no
	// longer exists (e.g. a saved auto-move destination was deleted).
	ResultDestinationNotFound
)

// String returns a stable name for logging and history entries.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultInternalError:
		return "internal_error"
	case ResultPermissionMissing:
		return "permission_missing"
	case ResultFileNotFound:
		return "file_not_found"
	case ResultFileAlreadyAtDestination:
		return "file_already_at_destination"
	case ResultInsufficientSpace:
		return "insufficient_space"
	case ResultDestinationNotFound:
		return "destination_not_found"
	default:
		return "unknown"
	}
}

// =============================================================================
// State
// =============================================================================

// State tracks an operation through its lifecycle.
type State int

const (
	// StateIdle is the initial state of a surfaced candidate.
	StateIdle State = iota

	// StateDestinationPending means the candidate awaits a destination
	// decision (notification posted, or auto-move check running).
	StateDestinationPending

	// StateResolving means a destination strategy is being evaluated.
	StateResolving

	// StateExecuting means the physical move is in flight.
	StateExecuting

	// StateTerminal means a Result has been produced.
	StateTerminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDestinationPending:
		return "destination_pending"
	case StateResolving:
		return "resolving"
	case StateExecuting:
		return "executing"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}
