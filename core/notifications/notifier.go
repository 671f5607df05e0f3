// Package notifications defines the sink contract toward the platform
// notification layer, the integer-resource ledger addressing posted
// notifications, and the move-result feedback mapping.
package notifications

import "log/slog"

// =============================================================================
// Notification
// =============================================================================

// Action is one actionable button on a notification. The code is the opaque
// callback identifier that re-enters the core when invoked.
type Action struct {
	Code  int
	Label string
}

// Notification is a structured post command for the sink.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Actions []Action
}

// =============================================================================
// Notifier
// =============================================================================

// Notifier is the external notification sink. Presentation is not part of the
// core; implementations only need to honor post and cancel.
type Notifier interface {
	// Post shows or replaces the notification with the given id.
	Post(id int, notification Notification)

	// Cancel removes a previously posted notification. Cancelling an unknown
	// id is a no-op.
	Cancel(id int)
}

// =============================================================================
// LogNotifier
// =============================================================================

// LogNotifier is a Notifier that writes structured log records instead of
// driving a platform surface. Used by the daemon when no UI is attached and
// by tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// Post implements Notifier.
func (n *LogNotifier) Post(id int, notification Notification) {
	n.logger.Info("notification posted",
		"id", id,
		"title", notification.Title,
		"body", notification.Body,
		"actions", len(notification.Actions))
}

// Cancel implements Notifier.
func (n *LogNotifier) Cancel(id int) {
	n.logger.Info("notification cancelled", "id", id)
}
