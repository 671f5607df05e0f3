package classify

import (
	"errors"
	"fmt"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrAutoMoveWithoutDestination indicates an enabled auto-move
	// configuration with no destination. The state is a transient UI-only
	// condition and must never reach the core; construction rejects it.
	ErrAutoMoveWithoutDestination = errors.New("auto-move enabled without destination")
)

// =============================================================================
// AutoMoveConfig / SourceConfig
// =============================================================================

// AutoMoveConfig is the automatic-relocation policy for one
// (FileType, SourceType) pair.
type AutoMoveConfig struct {
	Enabled     bool
	Destination string // absolute directory path; non-empty when Enabled
}

// SourceConfig is the per (FileType, SourceType) enablement record.
type SourceConfig struct {
	Enabled  bool
	AutoMove AutoMoveConfig
}

// sourceKey keys the enablement table.
type sourceKey struct {
	ordinal int
	source  SourceType
}

// =============================================================================
// Enablement
// =============================================================================

// Enablement is an immutable snapshot of the current per-pair configuration.
// Pairs absent from the snapshot are disabled.
type Enablement struct {
	types   []FileType
	sources map[sourceKey]SourceConfig
}

// EnablementEntry is one (FileType, SourceType) configuration row.
type EnablementEntry struct {
	FileType   FileType
	SourceType SourceType
	Config     SourceConfig
}

// NewEnablement builds a snapshot from configuration rows. It enforces the
// auto-move invariant: Enabled implies a non-empty destination.
func NewEnablement(entries []EnablementEntry) (*Enablement, error) {
	e := &Enablement{
		sources: make(map[sourceKey]SourceConfig, len(entries)),
	}

	seen := make(map[int]bool)
	for _, entry := range entries {
		cfg := entry.Config
		if cfg.AutoMove.Enabled && cfg.AutoMove.Destination == "" {
			return nil, fmt.Errorf("%w: %s/%s",
				ErrAutoMoveWithoutDestination, entry.FileType.Name(), entry.SourceType)
		}

		e.sources[sourceKey{entry.FileType.Ordinal(), entry.SourceType}] = cfg
		if !seen[entry.FileType.Ordinal()] {
			seen[entry.FileType.Ordinal()] = true
			e.types = append(e.types, entry.FileType)
		}
	}

	return e, nil
}

// Get returns the configuration for a pair; absent pairs are disabled.
func (e *Enablement) Get(ft FileType, st SourceType) SourceConfig {
	return e.sources[sourceKey{ft.Ordinal(), st}]
}

// IsEnabled reports whether a pair is enabled.
func (e *Enablement) IsEnabled(ft FileType, st SourceType) bool {
	return e.Get(ft, st).Enabled
}

// EnabledTypes returns the file types with at least one enabled source, in
// entry order.
func (e *Enablement) EnabledTypes() []FileType {
	var enabled []FileType
	for _, ft := range e.types {
		for _, st := range ft.Sources() {
			if e.IsEnabled(ft, st) {
				enabled = append(enabled, ft)
				break
			}
		}
	}
	return enabled
}

// Types returns every file type known to the snapshot, in entry order.
func (e *Enablement) Types() []FileType {
	return e.types
}
