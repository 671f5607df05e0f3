package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/w2sv/filenavigator/core/storage"
)

// configFileName is the manager's file inside the config directory.
const configFileName = "config.yaml"

// =============================================================================
// Manager
// =============================================================================

// Manager owns the current configuration snapshot. Readers get an immutable
// *Config via Get; writers go through Load/Save, which swap the snapshot
// atomically and notify subscribers. This is the full reactive contract the
// core needs: current-value snapshot plus change callbacks.
type Manager struct {
	current   atomic.Pointer[Config]
	dirs      *storage.Dirs
	logger    *slog.Logger
	watchers  []func(*Config)
	watcherMu sync.RWMutex
}

// NewManager creates a manager seeded with the default configuration.
func NewManager(dirs *storage.Dirs, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		dirs:   dirs,
		logger: logger.With("component", "config"),
	}
	m.current.Store(DefaultConfig())
	return m
}

// Path returns the location of the config file.
func (m *Manager) Path() string {
	return m.dirs.ConfigFile(configFileName)
}

// Get returns the current snapshot. The returned value must not be mutated.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Subscribe registers a change callback, invoked after every snapshot swap.
func (m *Manager) Subscribe(fn func(*Config)) {
	m.watcherMu.Lock()
	defer m.watcherMu.Unlock()
	m.watchers = append(m.watchers, fn)
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	defer m.watcherMu.RUnlock()
	for _, fn := range m.watchers {
		fn(cfg)
	}
}

// =============================================================================
// Load / Save
// =============================================================================

// Load resolves defaults, then the config file, then environment overrides,
// and publishes the result.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if err := m.loadFile(cfg); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	m.applyEnvironment(cfg)

	if _, err := cfg.Enablement(); err != nil {
		return fmt.Errorf("config enablement: %w", err)
	}

	m.current.Store(cfg)
	m.notifyWatchers(cfg)
	return nil
}

func (m *Manager) loadFile(cfg *Config) error {
	data, err := os.ReadFile(m.Path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (m *Manager) applyEnvironment(cfg *Config) {
	if v := os.Getenv("FILENAV_VOLUME_ROOT"); v != "" {
		cfg.VolumeRoot = v
	}
	if v := os.Getenv("FILENAV_DEBOUNCE"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			cfg.Observer.Debounce = v
		}
	}
	if v := os.Getenv("FILENAV_RECENCY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Observer.RecencyCapacity = n
		}
	}
	if v := os.Getenv("FILENAV_HISTORY_DB"); v != "" {
		cfg.History.DatabasePath = v
	}
}

// Save atomically writes a configuration as the new file content and
// publishes it. The edited configuration is validated first, so an enabled
// auto-move without a destination can never be persisted.
func (m *Manager) Save(cfg *Config) error {
	if _, err := cfg.Enablement(); err != nil {
		return fmt.Errorf("config enablement: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path := m.Path()
	if err := storage.EnsureStandardDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	m.current.Store(cfg)
	m.notifyWatchers(cfg)
	return nil
}

// =============================================================================
// File watching
// =============================================================================

// Watch reloads the configuration whenever the config file changes on disk,
// until the stop channel closes. External edits thereby flow to subscribers
// without a restart.
func (m *Manager) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.Path())
	if err := storage.EnsureStandardDir(dir); err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != m.Path() || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := m.Load(); err != nil {
					m.logger.Warn("config reload failed", "err", err)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}
