package csync

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// TimingParams describes one scanline. A zero SystemClockHz means "ask
// the platform".
type TimingParams struct {
	PixelClockHz  uint32 `yaml:"pixel_clock_hz"`
	HTotal        uint16 `yaml:"h_total"`
	HSyncStart    uint16 `yaml:"h_sync_start"`
	HSyncEnd      uint16 `yaml:"h_sync_end"`
	SystemClockHz uint32 `yaml:"system_clock_hz"`
}

// HSync pulse width in pixels
func (p TimingParams) HSyncWidth() uint32 {
	if p.HSyncEnd < p.HSyncStart {
		return 0
	}
	return uint32(p.HSyncEnd - p.HSyncStart)
}

// Line length minus twice the HSYNC width, in pixels. Never negative.
func (p TimingParams) LineLessSync() uint32 {
	hsw := p.HSyncWidth()
	if 2*hsw > uint32(p.HTotal) {
		return 0
	}
	return uint32(p.HTotal) - 2*hsw
}

// RawTimeConstant is LineLessSync() converted to system clock cycles,
// rounded down.
func (p TimingParams) RawTimeConstant() uint64 {
	if p.PixelClockHz == 0 {
		return 0
	}
	return uint64(p.LineLessSync()) * uint64(p.SystemClockHz) / uint64(p.PixelClockHz)
}

func (p TimingParams) Validate() error {
	switch {
	case p.PixelClockHz == 0:
		return errors.Wrap(ErrInvalidTimingParams, "pixel clock is 0")
	case p.SystemClockHz == 0:
		return errors.Wrap(ErrInvalidTimingParams, "system clock is 0")
	case p.HTotal == 0:
		return errors.Wrap(ErrInvalidTimingParams, "h_total is 0")
	case p.HSyncEnd < p.HSyncStart:
		return errors.Wrapf(ErrInvalidTimingParams, "hsync ends (%d) before it starts (%d)",
			p.HSyncEnd, p.HSyncStart)
	case p.HSyncEnd > p.HTotal:
		return errors.Wrapf(ErrInvalidTimingParams, "hsync end %d beyond h_total %d", p.HSyncEnd, p.HTotal)
	case 2*p.HSyncWidth() > uint32(p.HTotal):
		return errors.Wrapf(ErrInvalidTimingParams, "twice the hsync width (%d) exceeds h_total %d",
			2*p.HSyncWidth(), p.HTotal)
	case p.RawTimeConstant() > math.MaxUint32+2:
		return errors.Wrapf(ErrInvalidTimingParams, "time constant %d does not fit in 32 bits",
			p.RawTimeConstant())
	}
	return nil
}

func (p TimingParams) String() string {
	return fmt.Sprintf("clk_sys=%d pixel=%d htotal=%d hsw=%d lhs=%d tc=%d push=%d",
		p.SystemClockHz, p.PixelClockHz, p.HTotal, p.HSyncWidth(), p.LineLessSync(),
		p.RawTimeConstant(), ComputeTimeConstant(p))
}

// ComputeTimeConstant returns the value pushed to the program: the raw
// time constant minus the two cycles spent by the pull and the out.
func ComputeTimeConstant(p TimingParams) uint32 {
	tc := p.RawTimeConstant()
	if tc < 2 {
		return 0
	}
	return uint32(min(tc-2, math.MaxUint32))
}
