package notifications

import (
	"fmt"

	"github.com/w2sv/filenavigator/core/moving"
)

// =============================================================================
// Feedback
// =============================================================================

// FeedbackKind selects the user-facing surface for a move result.
type FeedbackKind int

const (
	// FeedbackToast is short transient feedback.
	FeedbackToast FeedbackKind = iota

	// FeedbackFollowUpNotification is a single follow-up notification
	// requiring user attention.
	FeedbackFollowUpNotification
)

// Feedback is the deterministic user-facing action for one move result.
type Feedback struct {
	Kind FeedbackKind

	// Text is the toast text or notification body.
	Text string

	// CancelInFlight reports whether the candidate's in-flight notification
	// should be cancelled.
	CancelInFlight bool
}

// ForResult maps a move result to its feedback action. Failures are never
// retried: each either needs no action or needs the user (grant permission,
// pick a new destination, free space).
func ForResult(result moving.Result, fileName, destination string) Feedback {
	switch result {
	case moving.ResultSuccess:
		return Feedback{
			Kind:           FeedbackToast,
			Text:           fmt.Sprintf("Moved %s to %s", fileName, destination),
			CancelInFlight: true,
		}
	case moving.ResultFileAlreadyAtDestination:
		return Feedback{
			Kind:           FeedbackToast,
			Text:           fmt.Sprintf("%s is already in %s", fileName, destination),
			CancelInFlight: true,
		}
	case moving.ResultFileNotFound:
		return Feedback{
			Kind:           FeedbackToast,
			Text:           fmt.Sprintf("%s no longer exists", fileName),
			CancelInFlight: true,
		}
	case moving.ResultInsufficientSpace:
		return Feedback{
			Kind:           FeedbackToast,
			Text:           fmt.Sprintf("Not enough space to move %s", fileName),
			CancelInFlight: false,
		}
	case moving.ResultPermissionMissing:
		return Feedback{
			Kind:           FeedbackFollowUpNotification,
			Text:           fmt.Sprintf("Missing permission to move %s", fileName),
			CancelInFlight: false,
		}
	case moving.ResultDestinationNotFound:
		return Feedback{
			Kind:           FeedbackFollowUpNotification,
			Text:           fmt.Sprintf("Saved destination %s no longer exists", destination),
			CancelInFlight: false,
		}
	default:
		return Feedback{
			Kind:           FeedbackToast,
			Text:           fmt.Sprintf("Could not move %s", fileName),
			CancelInFlight: false,
		}
	}
}
