package csync

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/logger"
	"github.com/handegar/csyncpio/utils"
)

// Start hands the time constant to the program and enables the state
// machine. Blocks while the TX FIFO is full, or until ctx is done.
func Start(ctx context.Context, seq Sequencer, h *Handle, value uint32) error {
	if err := seq.PutBlocking(ctx, h.Unit, value); err != nil {
		return errors.Wrapf(err, "sm%d: push time constant", h.Unit)
	}
	if err := seq.SetEnabled(h.Unit, true); err != nil {
		return errors.Wrapf(err, "sm%d: enable", h.Unit)
	}
	logger.Logf("driver", "sm%d: running, time constant %d", h.Unit, value)
	return nil
}

// Status is a snapshot of a running generator
type Status struct {
	Unit  int
	PC    uint8
	Index int // PC relative to the program origin
	HSync bool
	VSync bool
	CSync bool
}

func (s Status) String() string {
	return fmt.Sprintf("SM%d pc=%d idx=%d | HS=%d VS=%d",
		s.Unit, s.PC, s.Index, utils.BoolToInt(s.HSync), utils.BoolToInt(s.VSync))
}

// Poll reads the current PC and pin levels. Never modifies anything.
func Poll(seq Sequencer, h *Handle, pins PinAssignment) Status {
	pc := seq.GetPC(h.Unit)
	return Status{
		Unit:  h.Unit,
		PC:    pc,
		Index: h.Index(pc),
		HSync: seq.GPIOGet(pins.HSync),
		VSync: seq.GPIOGet(pins.VSync),
		CSync: seq.GPIOGet(pins.CSync),
	}
}

// Commission validates the configuration, then patches, loads and starts
// the generator. Returns the handle and the pushed time constant.
func Commission(ctx context.Context, seq Sequencer, cfg Config) (*Handle, uint32, error) {
	if err := cfg.Pins.Validate(seq.NumGPIOs()); err != nil {
		return nil, 0, err
	}

	// The constant is always computed for the clock the sequencer runs at
	timing := cfg.Timing
	platformHz := seq.SystemClockHz()
	if timing.SystemClockHz != 0 && timing.SystemClockHz != platformHz {
		return nil, 0, errors.Wrapf(ErrInvalidTimingParams,
			"configured clk_sys %d Hz, platform runs at %d Hz", timing.SystemClockHz, platformHz)
	}
	timing.SystemClockHz = platformHz
	if err := timing.Validate(); err != nil {
		return nil, 0, err
	}

	logger.Logf("csync", "HSYNC=GPIO%d VSYNC=GPIO%d CSYNC=GPIO%d %s",
		cfg.Pins.HSync, cfg.Pins.VSync, cfg.Pins.CSync, cfg.Polarity)

	prog := Patch(NewTemplate(), cfg.Pins, cfg.Polarity)
	h, err := Load(seq, prog, cfg.Pins)
	if err != nil {
		return nil, 0, err
	}

	value := ComputeTimeConstant(timing)
	logger.Log("csync", timing.String())

	if err := Start(ctx, seq, h, value); err != nil {
		release(seq, h)
		return nil, 0, err
	}
	return h, value, nil
}
