package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/handegar/csyncpio/csync"
)

func Test_ParseConfig(t *testing.T) {
	t.Run("Empty file gives the defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(""))
		if err != nil {
			t.Fatalf("ParseConfig failed: %s", err)
		}
		if diff := cmp.Diff(DefaultFileConfig(), cfg); diff != "" {
			t.Errorf("Defaults changed (-expected +got):\n%s", diff)
		}
	})

	t.Run("Partial file", func(t *testing.T) {
		data := `
pins:
  hsync: 10
  vsync: 11
  csync: 12
polarity:
  invert_csync: true
timing:
  system_clock_hz: 125000000
simulation:
  frames: 5
`
		cfg, err := ParseConfig([]byte(data))
		if err != nil {
			t.Fatalf("ParseConfig failed: %s", err)
		}

		expected := DefaultFileConfig()
		expected.CSync.Pins = csync.PinAssignment{HSync: 10, VSync: 11, CSync: 12}
		expected.CSync.Polarity.InvertOutput = true
		expected.CSync.Timing.SystemClockHz = 125000000
		expected.Simulation.Frames = 5
		if diff := cmp.Diff(expected, cfg); diff != "" {
			t.Errorf("Unexpected config (-expected +got):\n%s", diff)
		}
	})

	t.Run("Unknown keys", func(t *testing.T) {
		if _, err := ParseConfig([]byte("pins:\n  hsinc: 3\n")); err == nil {
			t.Errorf("Misspelt key accepted")
		}
	})
}

func Test_ReadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "csync.yaml")
	if err := os.WriteFile(filename, []byte("polarity:\n  hsync_active_low: false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	cfg, err := ReadConfig(filename)
	if err != nil {
		t.Fatalf("ReadConfig failed: %s", err)
	}
	if cfg.CSync.Polarity.HSyncActiveLow || !cfg.CSync.Polarity.VSyncActiveLow {
		t.Errorf("Unexpected polarity %+v", cfg.CSync.Polarity)
	}

	if _, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Missing file accepted")
	}
}

func Test_ReadWAVMissing(t *testing.T) {
	if _, _, _, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Errorf("Missing file accepted")
	}
}
