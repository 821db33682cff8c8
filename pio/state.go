package pio

import (
	"fmt"
	"io"

	"github.com/handegar/csyncpio/base"
)

// Registers and FIFOs of one state machine
type State struct {
	PC            uint8  // Program counter (absolute address)
	X             uint32 // Scratch register X
	Y             uint32 // Scratch register Y
	OSR           uint32 // Output shift register
	OSRShiftCount uint8  // Bits shifted out of OSR. 32 means empty
	ISR           uint32 // Input shift register
	ISRShiftCount uint8  // Bits shifted into ISR
	DelayCount    uint16 // Remaining delay cycles of the current instruction
	Stalled       bool   // The current instruction did not complete

	TxFIFO []uint32
	RxFIFO []uint32

	Cycles               uint64 // Cycles seen while enabled
	InstructionsExecuted uint64

	DebugFlags *DebugFlags // Contains misc debug/error flags which will be set @ runtime
}

func NewState() *State {
	s := new(State)
	s.DebugFlags = new(DebugFlags)
	s.Reset(0)
	return s
}

// Reset mirrors pio_sm_init(): registers cleared, FIFOs emptied and the
// program counter set to 'pc'.
func (s *State) Reset(pc uint8) {
	s.PC = pc
	s.X = 0
	s.Y = 0
	s.OSR = 0
	s.OSRShiftCount = 32
	s.ISR = 0
	s.ISRShiftCount = 0
	s.DelayCount = 0
	s.Stalled = false
	s.TxFIFO = make([]uint32, 0, base.FIFO_DEPTH)
	s.RxFIFO = make([]uint32, 0, base.FIFO_DEPTH)
	s.Cycles = 0
	s.InstructionsExecuted = 0
	s.DebugFlags.Reset()
}

func (s *State) Copy(in *State) {
	s.PC = in.PC
	s.X = in.X
	s.Y = in.Y
	s.OSR = in.OSR
	s.OSRShiftCount = in.OSRShiftCount
	s.ISR = in.ISR
	s.ISRShiftCount = in.ISRShiftCount
	s.DelayCount = in.DelayCount
	s.Stalled = in.Stalled
	s.TxFIFO = append(make([]uint32, 0, base.FIFO_DEPTH), in.TxFIFO...)
	s.RxFIFO = append(make([]uint32, 0, base.FIFO_DEPTH), in.RxFIFO...)
	s.Cycles = in.Cycles
	s.InstructionsExecuted = in.InstructionsExecuted
	*s.DebugFlags = *in.DebugFlags
}

func (s *State) Duplicate() *State {
	new := NewState()
	new.Copy(s)
	return new
}

func (s *State) Fprint(w io.Writer) {
	fmt.Fprintf(w, "PC=%d X=%d (%#08x) Y=%d (%#08x)\n", s.PC, s.X, s.X, s.Y, s.Y)
	fmt.Fprintf(w, "OSR=%#08x (%d shifted) ISR=%#08x (%d shifted)\n",
		s.OSR, s.OSRShiftCount, s.ISR, s.ISRShiftCount)
	fmt.Fprintf(w, "Delay=%d Stalled=%t TX=%v RX=%v\n", s.DelayCount, s.Stalled, s.TxFIFO, s.RxFIFO)
	fmt.Fprintf(w, "Cycles=%d Executed=%d\n", s.Cycles, s.InstructionsExecuted)
	s.DebugFlags.Fprint(w)
}

type StateMachine struct {
	Index   int
	Claimed bool
	Enabled bool
	Config  SMConfig
	State   *State

	clkDivCounter uint16
}

func newStateMachine(index int) *StateMachine {
	return &StateMachine{
		Index:  index,
		Config: DefaultSMConfig(),
		State:  NewState(),
	}
}
