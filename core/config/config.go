// Package config loads, persists and publishes the application
// configuration: watched category roots, per (file type, source type)
// enablement with auto-move policies, and pipeline tunables.
package config

import (
	"fmt"
	"time"

	"github.com/w2sv/filenavigator/core/classify"
	"github.com/w2sv/filenavigator/core/mediastore"
	"github.com/w2sv/filenavigator/core/observing"
)

// =============================================================================
// Config
// =============================================================================

// Config is the full configuration document. Duration fields are strings in
// Go duration syntax so the yaml stays human-editable.
type Config struct {
	VolumeRoot      string              `yaml:"volume_root"`
	Categories      map[string][]string `yaml:"categories"`
	ExcludePatterns []string            `yaml:"exclude_patterns"`

	Observer ObserverSettings `yaml:"observer"`
	Mover    MoverSettings    `yaml:"mover"`
	History  HistorySettings  `yaml:"history"`

	QuickMoveDestinations []string `yaml:"quick_move_destinations"`

	FileTypes []FileTypeSettings `yaml:"file_types"`
	UserTypes []UserTypeSettings `yaml:"user_types"`
}

// ObserverSettings tunes the observation pipeline.
type ObserverSettings struct {
	RecencyCapacity  int    `yaml:"recency_capacity"`
	ManualMoveWindow string `yaml:"manual_move_window"`
	Debounce         string `yaml:"debounce"`
	HashFingerprints bool   `yaml:"hash_fingerprints"`
	HashMaxBytes     int64  `yaml:"hash_max_bytes"`
}

// MoverSettings tunes the move executor pool.
type MoverSettings struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// HistorySettings locates the move history database.
type HistorySettings struct {
	DatabasePath string `yaml:"database_path"`
}

// FileTypeSettings is the enablement block of one file type.
type FileTypeSettings struct {
	Type    string           `yaml:"type"`
	Sources []SourceSettings `yaml:"sources"`
}

// SourceSettings is the per-source enablement and auto-move policy.
type SourceSettings struct {
	Source              string `yaml:"source"`
	Enabled             bool   `yaml:"enabled"`
	AutoMove            bool   `yaml:"auto_move"`
	AutoMoveDestination string `yaml:"auto_move_destination"`
}

// UserTypeSettings declares one user-defined extension-based type.
type UserTypeSettings struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
}

// =============================================================================
// Defaults
// =============================================================================

// DefaultConfig returns the shipped configuration: media types enabled for
// all their sources, non-media built-ins enabled for downloads, no auto-move.
func DefaultConfig() *Config {
	cfg := &Config{
		Categories: map[string][]string{
			mediastore.CategoryImages.String():    {"DCIM", "Pictures"},
			mediastore.CategoryVideos.String():    {"Movies", "DCIM"},
			mediastore.CategoryAudio.String():     {"Music", "Recordings"},
			mediastore.CategoryDownloads.String(): {"Download"},
		},
		ExcludePatterns: []string{".thumbnails", "*.tmp", "*.part"},
		Observer: ObserverSettings{
			RecencyCapacity:  observing.DefaultRecencyCapacity,
			ManualMoveWindow: observing.DefaultManualMoveWindow.String(),
			Debounce:         mediastore.DefaultDebounce.String(),
		},
		Mover: MoverSettings{
			Workers:   2,
			QueueSize: 64,
		},
	}

	for _, ft := range classify.BuiltinTypes() {
		block := FileTypeSettings{Type: ft.Name()}
		for _, st := range ft.Sources() {
			block.Sources = append(block.Sources, SourceSettings{
				Source:  st.String(),
				Enabled: true,
			})
		}
		cfg.FileTypes = append(cfg.FileTypes, block)
	}

	return cfg
}

// =============================================================================
// Parsed accessors
// =============================================================================

// ManualMoveWindow parses the correlation window, falling back to the
// default on malformed input.
func (c *Config) ManualMoveWindow() time.Duration {
	return parseDuration(c.Observer.ManualMoveWindow, observing.DefaultManualMoveWindow)
}

// Debounce parses the signal debounce interval.
func (c *Config) Debounce() time.Duration {
	return parseDuration(c.Observer.Debounce, mediastore.DefaultDebounce)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// =============================================================================
// Domain conversions
// =============================================================================

// UserFileTypes builds the user-defined classify types.
func (c *Config) UserFileTypes() ([]classify.FileType, error) {
	types := make([]classify.FileType, 0, len(c.UserTypes))
	for i, ut := range c.UserTypes {
		ft, err := classify.NewUserType(i, ut.Name, ut.Extensions)
		if err != nil {
			return nil, err
		}
		types = append(types, ft)
	}
	return types, nil
}

// Enablement builds the immutable per-pair snapshot consumed by the
// classifier. Unknown type or source names are rejected.
func (c *Config) Enablement() (*classify.Enablement, error) {
	userTypes, err := c.UserFileTypes()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]classify.FileType)
	for _, ft := range classify.BuiltinTypes() {
		byName[ft.Name()] = ft
	}
	for _, ft := range userTypes {
		byName[ft.Name()] = ft
	}

	var entries []classify.EnablementEntry
	for _, block := range c.FileTypes {
		ft, ok := byName[block.Type]
		if !ok {
			return nil, fmt.Errorf("unknown file type %q", block.Type)
		}
		for _, src := range block.Sources {
			st, err := parseSourceType(src.Source)
			if err != nil {
				return nil, err
			}
			entries = append(entries, classify.EnablementEntry{
				FileType:   ft,
				SourceType: st,
				Config: classify.SourceConfig{
					Enabled: src.Enabled,
					AutoMove: classify.AutoMoveConfig{
						Enabled:     src.AutoMove,
						Destination: src.AutoMoveDestination,
					},
				},
			})
		}
	}

	return classify.NewEnablement(entries)
}

func parseSourceType(name string) (classify.SourceType, error) {
	for _, st := range classify.AllSourceTypes {
		if st.String() == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown source type %q", name)
}

// IndexConfig builds the media index configuration.
func (c *Config) IndexConfig() (mediastore.FSIndexConfig, error) {
	roots := make(map[mediastore.Category][]string, len(c.Categories))
	for name, dirs := range c.Categories {
		category, err := mediastore.ParseCategory(name)
		if err != nil {
			return mediastore.FSIndexConfig{}, fmt.Errorf("category %q: %w", name, err)
		}
		roots[category] = dirs
	}

	return mediastore.FSIndexConfig{
		VolumeRoot:      c.VolumeRoot,
		CategoryRoots:   roots,
		ExcludePatterns: c.ExcludePatterns,
		Debounce:        c.Debounce(),
	}, nil
}

// ObserverConfig builds the shared observer tunables.
func (c *Config) ObserverConfig() observing.ObserverConfig {
	return observing.ObserverConfig{
		RecencyCapacity:  c.Observer.RecencyCapacity,
		ManualMoveWindow: c.ManualMoveWindow(),
		HashFingerprints: c.Observer.HashFingerprints,
		HashMaxBytes:     c.Observer.HashMaxBytes,
	}
}
