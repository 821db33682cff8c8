package pio

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/base"
)

var (
	ErrNoStateMachine = errors.New("no unused state machine")
	ErrNoSpace        = errors.New("no space in instruction memory")
	ErrInvalidSM      = errors.New("invalid state machine index")
)

// How often PutBlocking re-checks a full TX FIFO
var PutPollInterval = 50 * time.Microsecond

// Block simulates one PIO block: shared instruction memory, four state
// machines and the user GPIO bank they drive. All methods are safe for
// concurrent use. The simulation only advances through Step() and Run().
type Block struct {
	Index int

	mutex         sync.Mutex
	instructions  [base.INSTRUCTION_MEMORY_SIZE]uint16
	decoded       [base.INSTRUCTION_MEMORY_SIZE]base.Op
	usedMask      uint32
	stateMachines [base.NUM_STATE_MACHINES]*StateMachine
	gpio          *GPIOBank
	clockHz       uint32
	cycles        uint64
}

func NewBlock(index int, clockHz uint32, numGPIOs int) *Block {
	b := new(Block)
	b.Index = index
	b.clockHz = clockHz
	b.gpio = NewGPIOBank(numGPIOs)
	for i := range b.stateMachines {
		b.stateMachines[i] = newStateMachine(i)
	}
	nop := base.Assembler{}.Nop().Encode()
	for i := range b.instructions {
		b.instructions[i] = nop
		b.decoded[i] = DecodeOp(nop)
	}
	return b
}

func (b *Block) SystemClockHz() uint32 {
	return b.clockHz
}

func (b *Block) NumGPIOs() int {
	return b.gpio.Count()
}

func (b *Block) sm(sm int) (*StateMachine, error) {
	if sm < 0 || sm >= base.NUM_STATE_MACHINES {
		return nil, errors.Wrapf(ErrInvalidSM, "sm=%d", sm)
	}
	return b.stateMachines[sm], nil
}

//
// State machine pool
//

func (b *Block) ClaimUnusedSM() (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, sm := range b.stateMachines {
		if !sm.Claimed {
			sm.Claimed = true
			return sm.Index, nil
		}
	}
	return -1, errors.Wrapf(ErrNoStateMachine, "pio%d", b.Index)
}

func (b *Block) ClaimSM(index int) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return err
	}
	if sm.Claimed {
		return errors.Wrapf(ErrNoStateMachine, "pio%d sm%d already claimed", b.Index, index)
	}
	sm.Claimed = true
	return nil
}

func (b *Block) UnclaimSM(index int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if sm, err := b.sm(index); err == nil {
		sm.Claimed = false
		sm.Enabled = false
	}
}

func (b *Block) IsClaimed(index int) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	return err == nil && sm.Claimed
}

//
// Instruction memory
//

func programMask(length int, offset int) uint32 {
	return uint32(((uint64(1) << length) - 1) << offset)
}

func (b *Block) findOffset(length int, origin int) int {
	if length <= 0 || length > base.INSTRUCTION_MEMORY_SIZE {
		return -1
	}
	if origin >= 0 {
		if origin+length > base.INSTRUCTION_MEMORY_SIZE ||
			b.usedMask&programMask(length, origin) != 0 {
			return -1
		}
		return origin
	}
	// Same search order as the SDK: highest free offset first
	for i := base.INSTRUCTION_MEMORY_SIZE - length; i >= 0; i-- {
		if b.usedMask&programMask(length, i) == 0 {
			return i
		}
	}
	return -1
}

func (b *Block) CanAddProgram(length int, origin int) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.findOffset(length, origin) >= 0
}

// AddProgram copies the program into instruction memory and returns its
// offset. JMP targets are relocated by the offset. 'origin' < 0 lets the
// allocator choose.
func (b *Block) AddProgram(instructions []uint16, origin int) (uint8, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	offset := b.findOffset(len(instructions), origin)
	if offset < 0 {
		return 0, errors.Wrapf(ErrNoSpace, "pio%d: %d words (origin %d), used mask %#08x",
			b.Index, len(instructions), origin, b.usedMask)
	}

	for i, instr := range instructions {
		if base.Opcode(instr) == base.OP_JMP {
			addr := (instr&base.INDEX_MASK + uint16(offset)) & base.INDEX_MASK
			instr = instr&^base.INDEX_MASK | addr
		}
		b.instructions[offset+i] = instr
		b.decoded[offset+i] = DecodeOp(instr)
	}
	b.usedMask |= programMask(len(instructions), offset)
	return uint8(offset), nil
}

func (b *Block) RemoveProgram(length int, offset uint8) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.usedMask &^= programMask(length, int(offset))
}

func (b *Block) UsedMask() uint32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.usedMask
}

func (b *Block) InstructionAt(addr uint8) uint16 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.instructions[addr%base.INSTRUCTION_MEMORY_SIZE]
}

//
// State machine control
//

// SMInit resets the state machine, applies the config and points it at
// 'pc'. The state machine is left disabled.
func (b *Block) SMInit(index int, pc uint8, cfg SMConfig) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return err
	}
	sm.Enabled = false
	sm.Config = cfg
	sm.clkDivCounter = 0
	sm.State.Reset(pc % base.INSTRUCTION_MEMORY_SIZE)
	return nil
}

func (b *Block) SetEnabled(index int, enabled bool) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return err
	}
	sm.Enabled = enabled
	return nil
}

func (b *Block) IsEnabled(index int) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	return err == nil && sm.Enabled
}

// SetConsecutivePindirs mirrors pio_sm_set_consecutive_pindirs().
func (b *Block) SetConsecutivePindirs(index int, pinBase uint8, count uint8, out bool) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, err := b.sm(index); err != nil {
		return err
	}
	for i := uint8(0); i < count; i++ {
		b.gpio.setPIODirection(pinBase+i, out)
	}
	return nil
}

func (b *Block) GetPC(index int) uint8 {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return 0
	}
	return sm.State.PC
}

// StateOf returns a copy of the state machine's registers and FIFOs.
func (b *Block) StateOf(index int) *State {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return nil
	}
	return sm.State.Duplicate()
}

func (b *Block) ConfigOf(index int) SMConfig {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return SMConfig{}
	}
	return sm.Config
}

//
// FIFOs
//

// Put writes to the TX FIFO. Returns false if the FIFO is full.
func (b *Block) Put(index int, value uint32) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil || len(sm.State.TxFIFO) >= base.FIFO_DEPTH {
		return false
	}
	sm.State.TxFIFO = append(sm.State.TxFIFO, value)
	return true
}

// PutBlocking waits for room in the TX FIFO. The wait ends early if the
// context is cancelled.
func (b *Block) PutBlocking(ctx context.Context, index int, value uint32) error {
	if _, err := b.sm(index); err != nil {
		return err
	}
	for {
		if b.Put(index, value) {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "pio%d sm%d: TX FIFO full", b.Index, index)
		case <-time.After(PutPollInterval):
		}
	}
}

func (b *Block) Get(index int) (uint32, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil || len(sm.State.RxFIFO) == 0 {
		return 0, false
	}
	v := sm.State.RxFIFO[0]
	sm.State.RxFIFO = sm.State.RxFIFO[1:]
	return v, true
}

func (b *Block) TxLevel(index int) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	sm, err := b.sm(index)
	if err != nil {
		return 0
	}
	return len(sm.State.TxFIFO)
}

//
// GPIO
//

// GPIOInit mirrors gpio_init().
func (b *Block) GPIOInit(pin uint8) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.Init(pin)
}

// PIOGPIOInit mirrors pio_gpio_init(): hands the pin to this block.
func (b *Block) PIOGPIOInit(pin uint8) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.SetFunction(pin, FUNC_PIO)
}

func (b *Block) GPIOSetDir(pin uint8, out bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.SetDir(pin, out)
}

func (b *Block) GPIOSetPulls(pin uint8, up bool, down bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.SetPulls(pin, up, down)
}

func (b *Block) GPIODisablePulls(pin uint8) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.DisablePulls(pin)
}

func (b *Block) GPIOPulls(pin uint8) (bool, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.gpio.Pulls(pin)
}

func (b *Block) GPIOFunction(pin uint8) Function {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.gpio.Function(pin)
}

func (b *Block) GPIOIsOutput(pin uint8) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.gpio.IsOutput(pin)
}

func (b *Block) GPIOGet(pin uint8) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.gpio.Get(pin)
}

// GPIODrive applies an external level to a pin (the sync source).
func (b *Block) GPIODrive(pin uint8, level bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.Drive(pin, level)
}

func (b *Block) GPIORelease(pin uint8) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.gpio.Release(pin)
}

//
// Execution
//

// Step advances the whole block by one system clock cycle.
func (b *Block) Step() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.step()
}

func (b *Block) Run(cycles uint64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for i := uint64(0); i < cycles; i++ {
		b.step()
	}
}

// Cycles the block has been clocked since creation
func (b *Block) Cycles() uint64 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.cycles
}

func (b *Block) step() {
	b.cycles++
	for _, sm := range b.stateMachines {
		if sm.Enabled {
			b.stepStateMachine(sm)
		}
	}
}

func (b *Block) stepStateMachine(sm *StateMachine) {
	st := sm.State
	st.Cycles++

	if sm.Config.ClkDivInt > 1 {
		sm.clkDivCounter++
		if sm.clkDivCounter < sm.Config.ClkDivInt {
			return
		}
		sm.clkDivCounter = 0
	}

	if st.DelayCount > 0 {
		st.DelayCount--
		return
	}

	op := b.decoded[st.PC]
	side, sideValid, delay := base.SplitDelaySideSet(op.DelaySideSet,
		sm.Config.SidesetCount, sm.Config.SidesetOptional)

	// Side-set is asserted on every cycle the instruction is issued,
	// stalled or not.
	if sideValid {
		applySideSet(sm, b.gpio, side)
	}

	result, target := applyOp(op, sm, b.gpio)
	switch result {
	case stall:
		st.Stalled = true
		return
	case jump:
		st.PC = target % base.INSTRUCTION_MEMORY_SIZE
	default:
		if st.PC == sm.Config.Wrap {
			st.PC = sm.Config.WrapTarget
		} else {
			st.PC = (st.PC + 1) % base.INSTRUCTION_MEMORY_SIZE
		}
	}

	st.Stalled = false
	st.InstructionsExecuted++
	st.DelayCount = delay
}
