// Package pipeline connects the observation side to the move side: it
// receives candidate files, evaluates the auto-move policy, surfaces
// candidates to the notification layer, routes user actions back into move
// operations, and turns terminal move results into feedback, history entries
// and resource cleanup.
package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/history"
	"github.com/w2sv/filenavigator/core/moving"
	"github.com/w2sv/filenavigator/core/notifications"
	"github.com/w2sv/filenavigator/core/observing"
)

// =============================================================================
// Collaborator contracts
// =============================================================================

// HistorySink records successful moves. Satisfied by *history.Store.
type HistorySink interface {
	Append(entry history.Entry) error
}

// ToastSink shows short transient feedback. Satisfied by
// *notifications.ToastWriter.
type ToastSink interface {
	Show(text string)
}

// Submitter accepts move operations. Satisfied by *moving.Executor.
type Submitter interface {
	Submit(op moving.Operation) bool
	SubmitAll(ops []moving.Operation) int
}

// EnablementSource mirrors observing.EnablementSource.
type EnablementSource interface {
	Current() *classify.Enablement
}

// =============================================================================
// Candidate actions
// =============================================================================

// Notification action labels, in allocation order of their action codes.
var candidateActionLabels = []string{"Move", "Quick move", "Dismiss"}

// inflight tracks one surfaced candidate awaiting a destination decision.
type inflight struct {
	file   observing.CandidateFile
	handle notifications.ResourceHandle
	state  moving.State
}

// =============================================================================
// Dispatcher
// =============================================================================

// Dispatcher is the single consumer of emitted candidate files.
type Dispatcher struct {
	enablement EnablementSource
	submitter  Submitter
	notifier   notifications.Notifier
	ledger     *notifications.ResourceLedger
	historyDB  HistorySink
	toasts     ToastSink
	quickDest  func() string
	logger     *slog.Logger

	mu        sync.Mutex
	inflight  map[string]*inflight                     // candidate URI -> surfaced state
	byAction  map[int]string                           // action code -> candidate URI
	followUps map[string]notifications.ResourceHandle // candidate URI -> live follow-up
}

// NewDispatcher wires the downstream half of the pipeline.
func NewDispatcher(
	enablement EnablementSource,
	submitter Submitter,
	notifier notifications.Notifier,
	ledger *notifications.ResourceLedger,
	historyDB HistorySink,
	toasts ToastSink,
	quickDest func() string,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		enablement: enablement,
		submitter:  submitter,
		notifier:   notifier,
		ledger:     ledger,
		historyDB:  historyDB,
		toasts:     toasts,
		quickDest:  quickDest,
		logger:     logger.With("component", "dispatcher"),
		inflight:   make(map[string]*inflight),
		byAction:   make(map[int]string),
		followUps:  make(map[string]notifications.ResourceHandle),
	}
}

// =============================================================================
// Candidate intake
// =============================================================================

// HandleCandidate consumes one emitted candidate. Auto-move skips the
// notification entirely when the saved destination is valid; an invalid saved
// destination produces a follow-up notification instead of silently disabling
// the policy.
func (d *Dispatcher) HandleCandidate(file observing.CandidateFile) {
	cfg := d.enablement.Current().Get(file.FileType, file.SourceType)

	decision, dest := moving.DecideAuto(cfg)
	switch decision {
	case moving.AutoReady:
		d.submitter.Submit(moving.AutoMove{File: file, Dest: dest})
	case moving.AutoDestinationMissing:
		d.postDestinationMissing(file, dest)
		d.surface(file)
	default:
		d.surface(file)
	}
}

// surface posts the candidate notification and registers its action codes.
// A re-emission for an already surfaced URI supersedes the earlier candidate:
// its notification is cancelled and its handle freed before the new one is
// installed, so resources are freed exactly once per surfaced candidate.
func (d *Dispatcher) surface(file observing.CandidateFile) {
	handle := d.ledger.Allocate(len(candidateActionLabels))

	uri := file.Ref.URI()

	d.mu.Lock()
	superseded, had := d.inflight[uri]
	if had {
		for _, code := range superseded.handle.ActionCodes {
			delete(d.byAction, code)
		}
	}
	d.inflight[uri] = &inflight{
		file:   file,
		handle: handle,
		state:  moving.StateDestinationPending,
	}
	for _, code := range handle.ActionCodes {
		d.byAction[code] = uri
	}
	d.mu.Unlock()

	if had {
		superseded.state = moving.StateTerminal
		d.notifier.Cancel(superseded.handle.ID)
		d.ledger.Free(superseded.handle)
	}

	actions := make([]notifications.Action, len(candidateActionLabels))
	for i, label := range candidateActionLabels {
		actions[i] = notifications.Action{Code: handle.ActionCodes[i], Label: label}
	}

	d.notifier.Post(handle.ID, notifications.Notification{
		Title:   "New " + file.FileType.Name() + " from " + file.SourceType.String(),
		Body:    file.Metadata.DisplayName,
		Icon:    file.FileType.Icon(),
		Actions: actions,
	})
}

// postDestinationMissing informs the user that a saved auto-move destination
// is invalid. One notification per failure, no automatic retry.
func (d *Dispatcher) postDestinationMissing(file observing.CandidateFile, dest string) {
	feedback := notifications.ForResult(moving.ResultDestinationNotFound, file.Metadata.DisplayName, dest)
	d.postFollowUp(file.Ref.URI(), notifications.Notification{
		Title: "Auto-move destination missing",
		Body:  feedback.Text,
		Icon:  file.FileType.Icon(),
	})
}

// postFollowUp posts a follow-up notification for a candidate, superseding
// any earlier follow-up for the same URI. The handle stays allocated while
// the notification is displayed; it is freed on supersession or when the
// candidate reaches terminal cleanup, never while its id is still live.
func (d *Dispatcher) postFollowUp(uri string, notification notifications.Notification) {
	handle := d.ledger.Allocate(0)

	d.mu.Lock()
	superseded, had := d.followUps[uri]
	d.followUps[uri] = handle
	d.mu.Unlock()

	if had {
		d.notifier.Cancel(superseded.ID)
		d.ledger.Free(superseded)
	}

	d.notifier.Post(handle.ID, notification)
}

// releaseFollowUp cancels and frees a candidate's live follow-up, if any.
func (d *Dispatcher) releaseFollowUp(uri string) {
	d.mu.Lock()
	handle, ok := d.followUps[uri]
	if ok {
		delete(d.followUps, uri)
	}
	d.mu.Unlock()

	if !ok {
		return
	}
	d.notifier.Cancel(handle.ID)
	d.ledger.Free(handle)
}

// =============================================================================
// User actions
// =============================================================================

// MoveTo resolves the candidates behind the given action codes to a picked
// directory destination and submits them as one batch.
func (d *Dispatcher) MoveTo(dest string, actionCodes ...int) {
	files := d.takeFiles(actionCodes)
	if len(files) == 0 {
		return
	}
	d.submitter.SubmitAll(moving.NewDirectoryBatch(files, dest))
}

// QuickMove submits the candidates behind the action codes toward the
// previously confirmed quick destination without re-prompting.
func (d *Dispatcher) QuickMove(actionCodes ...int) {
	dest := d.quickDest()
	if dest == "" {
		return
	}
	files := d.takeFiles(actionCodes)
	if len(files) == 0 {
		return
	}
	d.submitter.SubmitAll(moving.NewQuickMoveBatch(files, dest))
}

// Dismiss drops the candidates behind the action codes and cleans up their
// notifications.
func (d *Dispatcher) Dismiss(actionCodes ...int) {
	for _, entry := range d.take(actionCodes) {
		d.cleanup(entry.file.Ref.URI())
	}
}

// takeFiles resolves action codes to candidate files, marking them resolving.
func (d *Dispatcher) takeFiles(actionCodes []int) []observing.CandidateFile {
	entries := d.take(actionCodes)
	files := make([]observing.CandidateFile, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.file)
	}
	return files
}

// take resolves action codes to distinct in-flight entries.
func (d *Dispatcher) take(actionCodes []int) []*inflight {
	d.mu.Lock()
	defer d.mu.Unlock()

	var entries []*inflight
	seen := make(map[string]bool)
	for _, code := range actionCodes {
		uri, ok := d.byAction[code]
		if !ok || seen[uri] {
			continue
		}
		entry, ok := d.inflight[uri]
		if !ok {
			continue
		}
		seen[uri] = true
		entry.state = moving.StateResolving
		entries = append(entries, entry)
	}
	return entries
}

// =============================================================================
// Result handling
// =============================================================================

// HandleResult is the executor's ResultHandler: feedback, history, cleanup.
func (d *Dispatcher) HandleResult(op moving.Operation, result moving.Result) {
	meta := op.Candidate().Metadata
	feedback := notifications.ForResult(result, meta.DisplayName, op.Destination())

	switch feedback.Kind {
	case notifications.FeedbackToast:
		d.toasts.Show(feedback.Text)
	case notifications.FeedbackFollowUpNotification:
		d.postFollowUp(op.Candidate().Ref.URI(), notifications.Notification{
			Title: "Move failed",
			Body:  feedback.Text,
		})
	}

	if result == moving.ResultSuccess {
		d.appendHistory(op)
	}

	if feedback.CancelInFlight {
		d.cleanup(op.Candidate().Ref.URI())
	}
}

// appendHistory records a successful move.
func (d *Dispatcher) appendHistory(op moving.Operation) {
	file := op.Candidate()
	entry := history.Entry{
		FileName:    file.Metadata.DisplayName,
		FileType:    file.FileType.Name(),
		SourceType:  file.SourceType.String(),
		Destination: op.Destination(),
		MovedAt:     time.Now(),
		AutoMoved:   op.AutoMoved(),
	}
	if err := d.historyDB.Append(entry); err != nil {
		d.logger.Warn("history append failed", "file", entry.FileName, "err", err)
	}
}

// cleanup cancels and frees a candidate's notification resources, including
// any live follow-up. Redundant invocations are harmless: the ledger treats
// double frees as no-ops.
func (d *Dispatcher) cleanup(uri string) {
	d.mu.Lock()
	entry, ok := d.inflight[uri]
	if ok {
		delete(d.inflight, uri)
		for _, code := range entry.handle.ActionCodes {
			delete(d.byAction, code)
		}
	}
	d.mu.Unlock()

	d.releaseFollowUp(uri)

	if !ok {
		return
	}
	entry.state = moving.StateTerminal
	d.notifier.Cancel(entry.handle.ID)
	d.ledger.Free(entry.handle)
}

// InFlightCount returns the number of candidates awaiting a decision.
func (d *Dispatcher) InFlightCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}
