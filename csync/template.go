package csync

import (
	"github.com/handegar/csyncpio/base"
)

const TEMPLATE_LENGTH = 9

// Template is the CSYNC program before pins and polarities are applied.
// Addresses are relative to the program origin.
type Template struct {
	Instructions [TEMPLATE_LENGTH]uint16

	// CSYNC level (before inversion) driven by each instruction's side-set
	Levels [TEMPLATE_LENGTH]uint8

	WrapTarget     uint8
	WrapActiveHigh uint8 // Wrap when VSYNC is active-high
	WrapActiveLow  uint8 // Wrap when VSYNC is active-low

	HSyncAssertWait  uint8 // 'wait <active> gpio <hsync>'
	HSyncReleaseWait uint8 // 'wait <inactive> gpio <hsync>'
	VSyncGate        uint8 // 'jmp pin' on VSYNC
	ExtendLoop       uint8 // 'jmp x--' stretching the VSYNC pulse

	SidesetCount int
}

// Assembled with the HSYNC pin and VSYNC gate target left as placeholders
// (3 and 7), for a positive HSYNC and VSYNC.
var templateWords = [TEMPLATE_LENGTH]uint16{
	0x90A0, // 0: pull block          side 1
	0x7040, // 1: out y, 32           side 1
	0xB322, // 2: mov x, y            side 1 [3]  <- wrap target
	0x3083, // 3: wait 1 gpio 3       side 1
	0xA422, // 4: mov x, y            side 0 [4]
	0x2003, // 5: wait 0 gpio 3       side 0
	0x00C7, // 6: jmp pin, 7          side 0      <- wrap (VSYNC active-high)
	0x0047, // 7: jmp x--, 7          side 0      <- wrap (VSYNC active-low)
	0x1002, // 8: jmp 2               side 1
}

var templateLevels = [TEMPLATE_LENGTH]uint8{1, 1, 1, 1, 0, 0, 0, 0, 1}

// NewTemplate returns a fresh copy of the CSYNC template
func NewTemplate() Template {
	return Template{
		Instructions:     templateWords,
		Levels:           templateLevels,
		WrapTarget:       2,
		WrapActiveHigh:   6,
		WrapActiveLow:    7,
		HSyncAssertWait:  3,
		HSyncReleaseWait: 5,
		VSyncGate:        6,
		ExtendLoop:       7,
		SidesetCount:     1,
	}
}

// Assemble builds the template words from scratch. Used to cross-check
// the literal table above.
func Assemble() [TEMPLATE_LENGTH]uint16 {
	a := base.Assembler{SidesetCount: 1}
	return [TEMPLATE_LENGTH]uint16{
		a.Pull(false, true).Side(1).Encode(),
		a.Out(base.OUT_DEST_Y, 32).Side(1).Encode(),
		a.Mov(base.MOV_DEST_X, base.MOV_OP_NONE, base.MOV_SRC_Y).Side(1).Delay(3).Encode(),
		a.WaitGPIO(true, 3).Side(1).Encode(),
		a.Mov(base.MOV_DEST_X, base.MOV_OP_NONE, base.MOV_SRC_Y).Side(0).Delay(4).Encode(),
		a.WaitGPIO(false, 3).Side(0).Encode(),
		a.Jmp(base.JMP_PIN, 7).Side(0).Encode(),
		a.Jmp(base.JMP_X_DEC, 7).Side(0).Encode(),
		a.Jmp(base.JMP_ALWAYS, 2).Side(1).Encode(),
	}
}
