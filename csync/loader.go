package csync

import (
	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/logger"
	"github.com/handegar/csyncpio/pio"
)

// Handle identifies a loaded program. Addresses are absolute.
type Handle struct {
	Unit       int
	Origin     uint8
	Length     int
	WrapTarget uint8
	Wrap       uint8
	Pins       PinAssignment
}

// Index of 'pc' inside the program. Negative or >= Length when the PC is
// somewhere else.
func (h *Handle) Index(pc uint8) int {
	return int(pc) - int(h.Origin)
}

// Load claims a state machine, writes the program and configures the
// state machine and pins. The state machine is left disabled. On failure
// nothing stays claimed, and an invalid pin assignment claims nothing.
func Load(seq Sequencer, prog Program, pins PinAssignment) (*Handle, error) {
	if err := pins.Validate(seq.NumGPIOs()); err != nil {
		return nil, err
	}

	sm, err := seq.ClaimUnusedSM()
	if err != nil {
		return nil, errors.Wrapf(ErrResourceExhausted, "%v", err)
	}

	offset, err := seq.AddProgram(prog.Instructions, prog.Origin)
	if err != nil {
		seq.UnclaimSM(sm)
		return nil, errors.Wrapf(ErrInstructionSpaceExhausted, "%d words: %v", prog.Length(), err)
	}

	h := &Handle{
		Unit:       sm,
		Origin:     offset,
		Length:     prog.Length(),
		WrapTarget: offset + prog.WrapTarget,
		Wrap:       offset + prog.Wrap,
		Pins:       pins,
	}

	cfg := pio.DefaultSMConfig()
	cfg.SetWrap(h.WrapTarget, h.Wrap)
	cfg.SetSideset(prog.SidesetCount, false, false)
	cfg.SetSidesetPins(pins.CSync)
	cfg.SetJmpPin(pins.VSync)

	// CSYNC is driven by the state machine
	seq.PIOGPIOInit(pins.CSync)
	if err := seq.SetConsecutivePindirs(sm, pins.CSync, 1, true); err != nil {
		release(seq, h)
		return nil, errors.Wrap(err, "csync pindir")
	}

	// HSYNC and VSYNC are plain inputs
	for _, pin := range []uint8{pins.HSync, pins.VSync} {
		seq.GPIOInit(pin)
		seq.GPIODisablePulls(pin)
		seq.GPIOSetDir(pin, false)
	}

	if err := seq.SMInit(sm, offset, cfg); err != nil {
		release(seq, h)
		return nil, errors.Wrap(err, "sm init")
	}

	logger.Logf("loader", "sm%d: %d words @ %d, wrap %d..%d, side-set gpio %d, jmp pin gpio %d",
		sm, h.Length, h.Origin, h.WrapTarget, h.Wrap, pins.CSync, pins.VSync)
	return h, nil
}

func release(seq Sequencer, h *Handle) {
	seq.RemoveProgram(h.Length, h.Origin)
	seq.UnclaimSM(h.Unit)
}

// Unload stops the state machine and frees its memory and claim. The
// sync inputs get their reset pull-downs back.
func Unload(seq Sequencer, h *Handle) error {
	if err := seq.SetEnabled(h.Unit, false); err != nil {
		return errors.Wrapf(err, "sm%d", h.Unit)
	}
	release(seq, h)
	for _, pin := range []uint8{h.Pins.HSync, h.Pins.VSync} {
		seq.GPIOSetPulls(pin, false, true)
	}
	logger.Logf("loader", "sm%d: unloaded", h.Unit)
	return nil
}
