package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/w2sv/filenavigator/core/classify"
)

// =============================================================================
// EnablementView
// =============================================================================

// EnablementView is the observers' live window onto the enablement snapshot.
// It subscribes to the manager and re-derives the snapshot on every change,
// so per-pair enablement edits reach running observers without a registry
// rebuild. A change that fails to derive keeps the previous snapshot.
type EnablementView struct {
	current atomic.Pointer[classify.Enablement]
}

// NewEnablementView derives the initial snapshot and subscribes for updates.
func NewEnablementView(manager *Manager, logger *slog.Logger) (*EnablementView, error) {
	if logger == nil {
		logger = slog.Default()
	}

	enablement, err := manager.Get().Enablement()
	if err != nil {
		return nil, err
	}

	v := &EnablementView{}
	v.current.Store(enablement)

	manager.Subscribe(func(cfg *Config) {
		updated, err := cfg.Enablement()
		if err != nil {
			logger.Warn("keeping previous enablement snapshot", "err", err)
			return
		}
		v.current.Store(updated)
	})

	return v, nil
}

// Current implements observing.EnablementSource.
func (v *EnablementView) Current() *classify.Enablement {
	return v.current.Load()
}
