package csync

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/utils"
)

// The wait instruction encodes its GPIO index in 5 bits
const MAX_PIN_INDEX = 31

type PinAssignment struct {
	HSync uint8 `yaml:"hsync"`
	VSync uint8 `yaml:"vsync"`
	CSync uint8 `yaml:"csync"`
}

// Validate checks that every pin exists and that no two roles share a pin
func (p PinAssignment) Validate(numGPIOs int) error {
	roles := []struct {
		name string
		pin  uint8
	}{
		{"hsync", p.HSync},
		{"vsync", p.VSync},
		{"csync", p.CSync},
	}

	for i, r := range roles {
		if int(r.pin) >= numGPIOs || r.pin > MAX_PIN_INDEX {
			return errors.Wrapf(ErrInvalidPinAssignment, "%s pin %d out of range (0..%d)",
				r.name, r.pin, min(numGPIOs-1, MAX_PIN_INDEX))
		}
		for _, o := range roles[:i] {
			if o.pin == r.pin {
				return errors.Wrapf(ErrInvalidPinAssignment, "%s and %s share pin %d", o.name, r.name, r.pin)
			}
		}
	}
	return nil
}

type PolarityConfig struct {
	HSyncActiveLow bool `yaml:"hsync_active_low"`
	VSyncActiveLow bool `yaml:"vsync_active_low"`
	InvertOutput   bool `yaml:"invert_csync"`
}

func (p PolarityConfig) String() string {
	return fmt.Sprintf("NHSYNC=%d NVSYNC=%d PCSYNC=%d",
		utils.BoolToInt(p.HSyncActiveLow), utils.BoolToInt(p.VSyncActiveLow), utils.BoolToInt(p.InvertOutput))
}

// Config is everything needed to commission a generator
type Config struct {
	Pins     PinAssignment  `yaml:"pins"`
	Polarity PolarityConfig `yaml:"polarity"`
	Timing   TimingParams   `yaml:"timing"`
}

// DefaultConfig is a 512 pixel line at 8.056 MHz with negative HSYNC and
// VSYNC on GPIO 2 and 3, CSYNC out on GPIO 4. The system clock is queried
// from the platform.
func DefaultConfig() Config {
	return Config{
		Pins: PinAssignment{
			HSync: 2,
			VSync: 3,
			CSync: 4,
		},
		Polarity: PolarityConfig{
			HSyncActiveLow: true,
			VSyncActiveLow: true,
			InvertOutput:   false,
		},
		Timing: TimingParams{
			PixelClockHz: 8056000,
			HTotal:       512,
			HSyncStart:   410,
			HSyncEnd:     450,
		},
	}
}
