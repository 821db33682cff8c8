package pio

import (
	"github.com/handegar/csyncpio/base"
)

// SMConfig holds the per state machine settings written by pio_sm_init().
// Setters follow the naming of the SDK's sm_config_set_*() helpers.
type SMConfig struct {
	WrapTarget uint8
	Wrap       uint8

	SidesetCount    int
	SidesetOptional bool
	SidesetPindirs  bool
	SidesetBase     uint8

	JmpPin   uint8
	InBase   uint8
	OutBase  uint8
	OutCount uint8
	SetBase  uint8
	SetCount uint8

	InShiftRight  bool
	OutShiftRight bool
	PullThreshold uint8 // 0 means 32
	PushThreshold uint8 // 0 means 32

	ClkDivInt uint16
}

func DefaultSMConfig() SMConfig {
	return SMConfig{
		WrapTarget:    0,
		Wrap:          base.INSTRUCTION_MEMORY_SIZE - 1,
		InShiftRight:  true,
		OutShiftRight: true,
		OutCount:      32,
		ClkDivInt:     1,
	}
}

func (c *SMConfig) SetWrap(target uint8, wrap uint8) {
	c.WrapTarget = target
	c.Wrap = wrap
}

func (c *SMConfig) SetSideset(count int, optional bool, pindirs bool) {
	c.SidesetCount = count
	c.SidesetOptional = optional
	c.SidesetPindirs = pindirs
}

func (c *SMConfig) SetSidesetPins(base uint8) {
	c.SidesetBase = base
}

func (c *SMConfig) SetJmpPin(pin uint8) {
	c.JmpPin = pin
}

func (c *SMConfig) SetClkDiv(div uint16) {
	if div == 0 {
		div = 1
	}
	c.ClkDivInt = div
}

func (c *SMConfig) pullThreshold() uint8 {
	if c.PullThreshold == 0 {
		return 32
	}
	return c.PullThreshold
}

func (c *SMConfig) pushThreshold() uint8 {
	if c.PushThreshold == 0 {
		return 32
	}
	return c.PushThreshold
}
