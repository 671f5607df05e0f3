package moving

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/w2sv/filenavigator/core/mediastore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultWorkers is the default size of the I/O-bound worker pool.
	DefaultWorkers = 2

	// DefaultQueueSize bounds the submitted-operation queue.
	DefaultQueueSize = 64
)

// =============================================================================
// Collaborator contracts
// =============================================================================

// ResultHandler receives each operation's terminal result. Batch members are
// reported independently.
type ResultHandler func(op Operation, result Result)

// =============================================================================
// ExecutorConfig
// =============================================================================

// ExecutorConfig configures the move executor pool.
type ExecutorConfig struct {
	Workers   int
	QueueSize int
}

func (c *ExecutorConfig) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
}

// =============================================================================
// Executor
// =============================================================================

// Executor performs physical moves on a worker pool decoupled from the
// observation pipeline. Submission is fire-and-forget; every operation ends
// in exactly one terminal Result delivered to the handler.
type Executor struct {
	config  ExecutorConfig
	index   mediastore.Index
	handler ResultHandler
	logger  *slog.Logger

	jobs    chan Operation
	mu      sync.RWMutex // guards running against Stop closing jobs mid-send
	running bool
	wg      sync.WaitGroup
}

// NewExecutor creates an executor. The index is needed to flag the
// executor's own writes for self-notification suppression.
func NewExecutor(index mediastore.Index, handler ResultHandler, config ExecutorConfig, logger *slog.Logger) *Executor {
	config.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		config:  config,
		index:   index,
		handler: handler,
		logger:  logger.With("component", "executor"),
		jobs:    make(chan Operation, config.QueueSize),
	}
}

// Start launches the worker pool. Safe to call once.
func (e *Executor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	for i := 0; i < e.config.Workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
}

// Stop drains queued operations and waits for the workers. Taking the write
// lock before closing the queue means no Submit can be mid-send on it; a
// concurrent Submit simply returns false.
func (e *Executor) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.jobs)
	e.mu.Unlock()

	e.wg.Wait()
}

// Submit enqueues one operation. Returns false if the queue is full or the
// executor is stopped.
func (e *Executor) Submit(op Operation) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.running {
		return false
	}
	select {
	case e.jobs <- op:
		return true
	default:
		e.logger.Warn("move queue full, rejecting operation",
			"file", op.Candidate().Metadata.DisplayName)
		return false
	}
}

// SubmitAll enqueues a batch, counting accepted members.
func (e *Executor) SubmitAll(ops []Operation) int {
	accepted := 0
	for _, op := range ops {
		if e.Submit(op) {
			accepted++
		}
	}
	return accepted
}

// worker drains the job queue.
func (e *Executor) worker() {
	defer e.wg.Done()
	for op := range e.jobs {
		result := e.Execute(op)
		if e.handler != nil {
			e.handler(op, result)
		}
	}
}

// =============================================================================
// Execution
// =============================================================================

// Execute performs one move synchronously and classifies the outcome. A stale
// operation whose file has since vanished or been moved is a FileNotFound
// terminal result, never an error.
func (e *Executor) Execute(op Operation) Result {
	meta := op.Candidate().Metadata
	e.logger.Debug("executing move", "file", meta.DisplayName,
		"dest", op.Destination(), "state", StateExecuting.String())

	result := e.classifyAndMove(op)

	e.logger.Info("move finished", "file", meta.DisplayName,
		"dest", op.Destination(), "result", result.String(),
		"auto", op.AutoMoved(), "batch", op.PartOfBatch())
	return result
}

// classifyAndMove runs the precondition checks and the move primitive.
func (e *Executor) classifyAndMove(op Operation) Result {
	source := op.Candidate().Metadata.AbsolutePath

	sourceInfo, err := os.Stat(source)
	if err != nil {
		return ResultFileNotFound
	}

	destDir := op.Destination()
	destInfo, err := os.Stat(destDir)
	if err != nil || !destInfo.IsDir() {
		return ResultDestinationNotFound
	}

	destPath := filepath.Join(destDir, op.Candidate().Metadata.DisplayName)
	if destPath == source {
		return ResultFileAlreadyAtDestination
	}
	if existing, err := os.Stat(destPath); err == nil && existing.Size() == sourceInfo.Size() {
		// Same name, same size at the destination: treat as already moved
		// rather than clobbering.
		return ResultFileAlreadyAtDestination
	}

	if free := freeBytes(destDir); free >= 0 && free < sourceInfo.Size() {
		return ResultInsufficientSpace
	}

	// The resulting change signal is ours; the index must swallow it.
	e.index.MarkOwnWrite(destPath)

	if err := moveFile(source, destPath); err != nil {
		return classifyMoveError(err)
	}
	return ResultSuccess
}

// classifyMoveError maps a move primitive failure into the result taxonomy.
func classifyMoveError(err error) Result {
	switch {
	case os.IsNotExist(err):
		return ResultFileNotFound
	case os.IsPermission(err):
		return ResultPermissionMissing
	default:
		return ResultInternalError
	}
}

// moveFile renames the file, falling back to copy-and-delete across volumes.
func moveFile(source, destPath string) error {
	err := os.Rename(source, destPath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyAcrossVolumes(source, destPath)
}

// copyAcrossVolumes copies the file to the destination volume and removes the
// source. A failed copy leaves the source untouched.
func copyAcrossVolumes(source, destPath string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(destPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return err
	}

	return os.Remove(source)
}
