package csync

import (
	"math/bits"

	"github.com/handegar/csyncpio/base"
)

// Program is a patched template ready to be loaded
type Program struct {
	Instructions []uint16
	Origin       int   // -1 lets the loader pick the location
	WrapTarget   uint8 // Relative to the program start
	Wrap         uint8 // Relative to the program start
	SidesetCount int
}

func (p Program) Length() int {
	return len(p.Instructions)
}

func setIndex(word uint16, index uint8) uint16 {
	return word&^base.INDEX_MASK | uint16(index)&base.INDEX_MASK
}

func setWaitPolarity(word uint16, level bool) uint16 {
	if level {
		return word | base.WAIT_POLARITY_BIT
	}
	return word &^ base.WAIT_POLARITY_BIT
}

func setSideSet(word uint16, mask uint16, value uint8) uint16 {
	shift := bits.TrailingZeros16(mask)
	return word&^mask | (uint16(value)<<shift)&mask
}

// Patch applies pins and polarities to the template. All fields are
// written with absolute values so patching an already patched template
// gives the same program.
func Patch(t Template, pins PinAssignment, pol PolarityConfig) Program {
	instr := t.Instructions

	// HSYNC: the first wait holds until the pulse starts, the second until
	// it ends. Their polarities always move together.
	activeLevel := !pol.HSyncActiveLow
	instr[t.HSyncAssertWait] = setWaitPolarity(setIndex(instr[t.HSyncAssertWait], pins.HSync), activeLevel)
	instr[t.HSyncReleaseWait] = setWaitPolarity(setIndex(instr[t.HSyncReleaseWait], pins.HSync), !activeLevel)

	// VSYNC: with an active-high VSYNC a high pin enters the extend loop,
	// with an active-low VSYNC a high pin means "not in VSYNC" and goes
	// straight back to the wrap target.
	gateTarget := t.ExtendLoop
	wrap := t.WrapActiveHigh
	if pol.VSyncActiveLow {
		gateTarget = t.WrapTarget
		wrap = t.WrapActiveLow
	}
	instr[t.VSyncGate] = setIndex(instr[t.VSyncGate], gateTarget)

	sideMask := base.SideSetMask(t.SidesetCount, false)
	for i := range instr {
		level := t.Levels[i]
		if pol.InvertOutput {
			level ^= 1
		}
		instr[i] = setSideSet(instr[i], sideMask, level)
	}

	return Program{
		Instructions: instr[:],
		Origin:       -1,
		WrapTarget:   t.WrapTarget,
		Wrap:         wrap,
		SidesetCount: t.SidesetCount,
	}
}

// TemplateFromProgram turns a patched program back into a template so
// it can be patched again.
func TemplateFromProgram(t Template, p Program) Template {
	copy(t.Instructions[:], p.Instructions)
	return t
}
