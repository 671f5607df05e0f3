package moving

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/w2sv/filenavigator/core/classify"
)

func TestDecideAuto(t *testing.T) {
	validDest := t.TempDir()

	cases := []struct {
		name     string
		cfg      classify.SourceConfig
		decision AutoDecision
		dest     string
	}{
		{
			name:     "disabled",
			cfg:      classify.SourceConfig{Enabled: true},
			decision: AutoDisabled,
		},
		{
			name: "ready",
			cfg: classify.SourceConfig{
				Enabled:  true,
				AutoMove: classify.AutoMoveConfig{Enabled: true, Destination: validDest},
			},
			decision: AutoReady,
			dest:     validDest,
		},
		{
			name: "destination vanished",
			cfg: classify.SourceConfig{
				Enabled: true,
				AutoMove: classify.AutoMoveConfig{
					Enabled:     true,
					Destination: filepath.Join(validDest, "deleted"),
				},
			},
			decision: AutoDestinationMissing,
			dest:     filepath.Join(validDest, "deleted"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, dest := DecideAuto(tc.cfg)
			if decision != tc.decision {
				t.Errorf("decision = %v, want %v", decision, tc.decision)
			}
			if dest != tc.dest {
				t.Errorf("dest = %q, want %q", dest, tc.dest)
			}
		})
	}
}

func TestDecideAuto_FileAsDestination(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	decision, _ := DecideAuto(classify.SourceConfig{
		Enabled:  true,
		AutoMove: classify.AutoMoveConfig{Enabled: true, Destination: file},
	})
	if decision != AutoDestinationMissing {
		t.Errorf("decision = %v, want %v", decision, AutoDestinationMissing)
	}
}
