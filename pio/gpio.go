package pio

import (
	"fmt"
)

type Function int

const (
	FUNC_NULL Function = iota
	FUNC_SIO
	FUNC_PIO
)

var functionNames = map[Function]string{
	FUNC_NULL: "NULL",
	FUNC_SIO:  "SIO",
	FUNC_PIO:  "PIO",
}

func (f Function) String() string {
	if s, found := functionNames[f]; found {
		return s
	}
	return fmt.Sprintf("FUNC(%d)", int(f))
}

// GPIOBank models the user bank of pins as seen from the PIO block and
// from the outside world. Levels are single bits packed in uint64 masks.
//
// The bank is not synchronised. Block wraps every access in its own lock.
type GPIOBank struct {
	count    int
	function []Function

	sioOutput uint64 // SIO output latch
	sioOE     uint64 // SIO output enable (gpio_set_dir)
	pioOutput uint64 // PIO output latch
	pioOE     uint64 // PIO pindirs

	pullUp   uint64
	pullDown uint64

	external       uint64 // Levels driven from outside the chip
	externalDriven uint64
}

func NewGPIOBank(count int) *GPIOBank {
	g := new(GPIOBank)
	g.count = count
	g.function = make([]Function, count)
	g.Reset()
	return g
}

// Reset puts every pin in its power-on state: no function, input, pull-down.
func (g *GPIOBank) Reset() {
	for i := range g.function {
		g.function[i] = FUNC_NULL
	}
	g.sioOutput = 0
	g.sioOE = 0
	g.pioOutput = 0
	g.pioOE = 0
	g.pullUp = 0
	g.pullDown = (uint64(1) << g.count) - 1
	g.external = 0
	g.externalDriven = 0
}

func (g *GPIOBank) Count() int {
	return g.count
}

func (g *GPIOBank) valid(pin uint8) bool {
	return int(pin) < g.count
}

// Init mirrors gpio_init(): SIO function, input, output latch cleared.
func (g *GPIOBank) Init(pin uint8) {
	if !g.valid(pin) {
		return
	}
	g.function[pin] = FUNC_SIO
	g.sioOE &^= 1 << pin
	g.sioOutput &^= 1 << pin
}

func (g *GPIOBank) SetFunction(pin uint8, fn Function) {
	if !g.valid(pin) {
		return
	}
	g.function[pin] = fn
}

func (g *GPIOBank) Function(pin uint8) Function {
	if !g.valid(pin) {
		return FUNC_NULL
	}
	return g.function[pin]
}

func (g *GPIOBank) SetDir(pin uint8, out bool) {
	if !g.valid(pin) {
		return
	}
	if out {
		g.sioOE |= 1 << pin
	} else {
		g.sioOE &^= 1 << pin
	}
}

func (g *GPIOBank) SetPulls(pin uint8, up bool, down bool) {
	if !g.valid(pin) {
		return
	}
	g.pullUp &^= 1 << pin
	g.pullDown &^= 1 << pin
	if up {
		g.pullUp |= 1 << pin
	}
	if down {
		g.pullDown |= 1 << pin
	}
}

func (g *GPIOBank) DisablePulls(pin uint8) {
	g.SetPulls(pin, false, false)
}

func (g *GPIOBank) Pulls(pin uint8) (up bool, down bool) {
	if !g.valid(pin) {
		return false, false
	}
	return g.pullUp&(1<<pin) != 0, g.pullDown&(1<<pin) != 0
}

// IsOutput reports whether the peripheral owning the pin drives it.
func (g *GPIOBank) IsOutput(pin uint8) bool {
	if !g.valid(pin) {
		return false
	}
	switch g.function[pin] {
	case FUNC_SIO:
		return g.sioOE&(1<<pin) != 0
	case FUNC_PIO:
		return g.pioOE&(1<<pin) != 0
	}
	return false
}

// Drive sets the level an external source puts on the pin.
func (g *GPIOBank) Drive(pin uint8, level bool) {
	if !g.valid(pin) {
		return
	}
	g.externalDriven |= 1 << pin
	if level {
		g.external |= 1 << pin
	} else {
		g.external &^= 1 << pin
	}
}

// Release stops the external source driving the pin (high impedance).
func (g *GPIOBank) Release(pin uint8) {
	if !g.valid(pin) {
		return
	}
	g.externalDriven &^= 1 << pin
}

// Get returns the level on the pad. The chip's own output wins over an
// external source. An undriven pin settles to its pull, or low.
func (g *GPIOBank) Get(pin uint8) bool {
	if !g.valid(pin) {
		return false
	}
	mask := uint64(1) << pin

	switch g.function[pin] {
	case FUNC_PIO:
		if g.pioOE&mask != 0 {
			return g.pioOutput&mask != 0
		}
	case FUNC_SIO:
		if g.sioOE&mask != 0 {
			return g.sioOutput&mask != 0
		}
	}

	if g.externalDriven&mask != 0 {
		return g.external&mask != 0
	}
	if g.pullUp&mask != 0 {
		return true
	}
	return false
}

// Floating reports a pin nobody drives and nothing pulls.
func (g *GPIOBank) Floating(pin uint8) bool {
	if !g.valid(pin) {
		return false
	}
	mask := uint64(1) << pin
	return !g.IsOutput(pin) && g.externalDriven&mask == 0 &&
		g.pullUp&mask == 0 && g.pullDown&mask == 0
}

func (g *GPIOBank) setPIOOutput(pin uint8, level bool) {
	if !g.valid(pin) {
		return
	}
	if level {
		g.pioOutput |= 1 << pin
	} else {
		g.pioOutput &^= 1 << pin
	}
}

func (g *GPIOBank) setPIODirection(pin uint8, out bool) {
	if !g.valid(pin) {
		return
	}
	if out {
		g.pioOE |= 1 << pin
	} else {
		g.pioOE &^= 1 << pin
	}
}
