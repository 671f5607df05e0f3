package notifications

import (
	"strings"
	"testing"

	"github.com/w2sv/filenavigator/core/moving"
)

func TestForResult(t *testing.T) {
	cases := []struct {
		result moving.Result
		kind   FeedbackKind
		cancel bool
		text   string
	}{
		{moving.ResultSuccess, FeedbackToast, true, "Moved"},
		{moving.ResultFileAlreadyAtDestination, FeedbackToast, true, "already in"},
		{moving.ResultFileNotFound, FeedbackToast, true, "no longer exists"},
		{moving.ResultInsufficientSpace, FeedbackToast, false, "Not enough space"},
		{moving.ResultPermissionMissing, FeedbackFollowUpNotification, false, "permission"},
		{moving.ResultDestinationNotFound, FeedbackFollowUpNotification, false, "destination"},
		{moving.ResultInternalError, FeedbackToast, false, "Could not move"},
	}

	for _, tc := range cases {
		t.Run(tc.result.String(), func(t *testing.T) {
			fb := ForResult(tc.result, "IMG.jpg", "/vol/Pictures/Sorted")
			if fb.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", fb.Kind, tc.kind)
			}
			if fb.CancelInFlight != tc.cancel {
				t.Errorf("CancelInFlight = %v, want %v", fb.CancelInFlight, tc.cancel)
			}
			if !strings.Contains(strings.ToLower(fb.Text), strings.ToLower(tc.text)) {
				t.Errorf("Text %q does not mention %q", fb.Text, tc.text)
			}
		})
	}
}

func TestForResult_Deterministic(t *testing.T) {
	a := ForResult(moving.ResultSuccess, "a.pdf", "/dest")
	b := ForResult(moving.ResultSuccess, "a.pdf", "/dest")
	if a != b {
		t.Error("same result must map to identical feedback")
	}
}
