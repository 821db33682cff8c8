package csync

import (
	"context"

	"github.com/handegar/csyncpio/pio"
)

// What the generator needs from the PIO block it runs on. *pio.Block
// implements all of it.

type UnitPool interface {
	ClaimUnusedSM() (int, error)
	UnclaimSM(sm int)
}

type InstructionMemory interface {
	AddProgram(instructions []uint16, origin int) (uint8, error)
	RemoveProgram(length int, offset uint8)
}

type GPIO interface {
	NumGPIOs() int
	GPIOInit(pin uint8)
	PIOGPIOInit(pin uint8)
	GPIOSetDir(pin uint8, out bool)
	GPIODisablePulls(pin uint8)
	GPIOSetPulls(pin uint8, up bool, down bool)
	GPIOGet(pin uint8) bool
}

type Clock interface {
	SystemClockHz() uint32
}

type StateMachineControl interface {
	SMInit(sm int, pc uint8, cfg pio.SMConfig) error
	SetConsecutivePindirs(sm int, pinBase uint8, count uint8, out bool) error
	SetEnabled(sm int, enabled bool) error
	PutBlocking(ctx context.Context, sm int, value uint32) error
	GetPC(sm int) uint8
}

type Sequencer interface {
	UnitPool
	InstructionMemory
	GPIO
	Clock
	StateMachineControl
}

var _ Sequencer = (*pio.Block)(nil)
