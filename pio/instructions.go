package pio

import (
	"math/bits"

	"github.com/handegar/csyncpio/base"
)

type outcome int

const (
	advance outcome = iota // Continue with the next instruction (or wrap)
	stall                  // Re-execute the same instruction next cycle
	jump                   // Continue at the returned address
)

type opFunc func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8)

// A bit count of 0 in IN/OUT means 32
func bitCount(raw uint16) uint8 {
	if raw == 0 {
		return 32
	}
	return uint8(raw)
}

func lowMask(count uint8) uint32 {
	return uint32((uint64(1) << count) - 1)
}

func readPins(io *GPIOBank, pinBase uint8, count uint8) uint32 {
	var value uint32
	for i := uint8(0); i < count; i++ {
		if io.Get((pinBase + i) % 32) {
			value |= 1 << i
		}
	}
	return value
}

func writePins(io *GPIOBank, pinBase uint8, count uint8, value uint32) {
	for i := uint8(0); i < count; i++ {
		io.setPIOOutput((pinBase+i)%32, value&(1<<i) != 0)
	}
}

func writePindirs(io *GPIOBank, pinBase uint8, count uint8, value uint32) {
	for i := uint8(0); i < count; i++ {
		io.setPIODirection((pinBase+i)%32, value&(1<<i) != 0)
	}
}

func shiftIntoISR(sm *StateMachine, data uint32, count uint8) {
	st := sm.State
	data &= lowMask(count)
	if sm.Config.InShiftRight {
		st.ISR = (st.ISR >> count) | (data << (32 - count))
	} else {
		st.ISR = (st.ISR << count) | data
	}
	st.ISRShiftCount = min(32, st.ISRShiftCount+count)
}

func shiftOutOfOSR(sm *StateMachine, count uint8) uint32 {
	st := sm.State
	var data uint32
	if sm.Config.OutShiftRight {
		data = st.OSR & lowMask(count)
		st.OSR >>= count
	} else {
		data = st.OSR >> (32 - count)
		st.OSR <<= count
	}
	st.OSRShiftCount = min(32, st.OSRShiftCount+count)
	return data
}

var opTable = map[string]opFunc{
	"JMP": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		addr := uint8(op.Args[0].RawValue)
		st := sm.State

		take := false
		switch op.Args[1].RawValue {
		case base.JMP_ALWAYS:
			take = true
		case base.JMP_X_ZERO:
			take = st.X == 0
		case base.JMP_X_DEC: // Test before decrement, always decrement
			take = st.X != 0
			st.X--
		case base.JMP_Y_ZERO:
			take = st.Y == 0
		case base.JMP_Y_DEC:
			take = st.Y != 0
			st.Y--
		case base.JMP_X_NOT_Y:
			take = st.X != st.Y
		case base.JMP_PIN:
			take = io.Get(sm.Config.JmpPin)
		case base.JMP_NOT_OSRE:
			take = st.OSRShiftCount < sm.Config.pullThreshold()
		}

		if take {
			return jump, addr
		}
		return advance, 0
	},
	"WAIT": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		index := uint8(op.Args[0].RawValue)
		polarity := op.Args[2].RawValue == 1

		level := false
		switch op.Args[1].RawValue {
		case base.WAIT_SRC_GPIO:
			level = io.Get(index)
		case base.WAIT_SRC_PIN:
			level = io.Get((sm.Config.InBase + index) % 32)
		case base.WAIT_SRC_JMPPIN:
			level = io.Get((sm.Config.JmpPin + index) % 32)
		case base.WAIT_SRC_IRQ:
			// IRQ flags are not modelled. Waiting on one would hang forever.
			sm.State.DebugFlags.IRQWaitCount += 1
			return advance, 0
		}

		if level != polarity {
			sm.State.DebugFlags.WaitStallCycles += 1
			return stall, 0
		}
		return advance, 0
	},
	"IN": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		count := bitCount(op.Args[0].RawValue)
		st := sm.State

		var data uint32
		switch op.Args[1].RawValue {
		case base.IN_SRC_PINS:
			data = readPins(io, sm.Config.InBase, count)
		case base.IN_SRC_X:
			data = st.X
		case base.IN_SRC_Y:
			data = st.Y
		case base.IN_SRC_NULL:
			data = 0
		case base.IN_SRC_ISR:
			data = st.ISR
		case base.IN_SRC_OSR:
			data = st.OSR
		default:
			st.DebugFlags.IncreaseUnsupportedOp("IN <reserved>")
		}

		shiftIntoISR(sm, data, count)
		return advance, 0
	},
	"OUT": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		count := bitCount(op.Args[0].RawValue)
		st := sm.State
		data := shiftOutOfOSR(sm, count)

		switch op.Args[1].RawValue {
		case base.OUT_DEST_PINS:
			writePins(io, sm.Config.OutBase, min(count, sm.Config.OutCount), data)
		case base.OUT_DEST_X:
			st.X = data
		case base.OUT_DEST_Y:
			st.Y = data
		case base.OUT_DEST_NULL:
		case base.OUT_DEST_PINDIRS:
			writePindirs(io, sm.Config.OutBase, min(count, sm.Config.OutCount), data)
		case base.OUT_DEST_PC:
			return jump, uint8(data) % base.INSTRUCTION_MEMORY_SIZE
		case base.OUT_DEST_ISR:
			st.ISR = data
			st.ISRShiftCount = count
		case base.OUT_DEST_EXEC:
			st.DebugFlags.IncreaseUnsupportedOp("OUT EXEC")
		}
		return advance, 0
	},
	"PULL": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		block := op.Args[1].RawValue == 1
		ifEmpty := op.Args[2].RawValue == 1
		st := sm.State

		if ifEmpty && st.OSRShiftCount < sm.Config.pullThreshold() {
			return advance, 0
		}

		if len(st.TxFIFO) == 0 {
			if block {
				st.DebugFlags.TxStallCycles += 1
				return stall, 0
			}
			// Non-blocking pull from an empty FIFO copies X
			st.OSR = st.X
			st.OSRShiftCount = 0
			return advance, 0
		}

		st.OSR = st.TxFIFO[0]
		st.TxFIFO = st.TxFIFO[1:]
		st.OSRShiftCount = 0
		return advance, 0
	},
	"PUSH": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		block := op.Args[1].RawValue == 1
		ifFull := op.Args[2].RawValue == 1
		st := sm.State

		if ifFull && st.ISRShiftCount < sm.Config.pushThreshold() {
			return advance, 0
		}

		if len(st.RxFIFO) >= base.FIFO_DEPTH {
			if block {
				st.DebugFlags.RxStallCycles += 1
				return stall, 0
			}
			st.DebugFlags.DroppedPushCount += 1
		} else {
			st.RxFIFO = append(st.RxFIFO, st.ISR)
		}

		st.ISR = 0
		st.ISRShiftCount = 0
		return advance, 0
	},
	"MOV": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		st := sm.State

		var value uint32
		switch op.Args[0].RawValue {
		case base.MOV_SRC_PINS:
			value = readPins(io, sm.Config.InBase, 32)
		case base.MOV_SRC_X:
			value = st.X
		case base.MOV_SRC_Y:
			value = st.Y
		case base.MOV_SRC_NULL:
			value = 0
		case base.MOV_SRC_STATUS:
			// FIXME: STATUS is configurable (TX/RX level). Only 'TX not full' is reported.
			if len(st.TxFIFO) < base.FIFO_DEPTH {
				value = 0xFFFFFFFF
			}
		case base.MOV_SRC_ISR:
			value = st.ISR
		case base.MOV_SRC_OSR:
			value = st.OSR
		default:
			st.DebugFlags.IncreaseUnsupportedOp("MOV <reserved>")
		}

		switch op.Args[1].RawValue {
		case base.MOV_OP_INVERT:
			value = ^value
		case base.MOV_OP_REVERSE:
			value = bits.Reverse32(value)
		}

		switch op.Args[2].RawValue {
		case base.MOV_DEST_PINS:
			writePins(io, sm.Config.OutBase, sm.Config.OutCount, value)
		case base.MOV_DEST_X:
			st.X = value
		case base.MOV_DEST_Y:
			st.Y = value
		case base.MOV_DEST_PINDIRS:
			writePindirs(io, sm.Config.OutBase, sm.Config.OutCount, value)
		case base.MOV_DEST_EXEC:
			st.DebugFlags.IncreaseUnsupportedOp("MOV EXEC")
		case base.MOV_DEST_PC:
			return jump, uint8(value % base.INSTRUCTION_MEMORY_SIZE)
		case base.MOV_DEST_ISR:
			st.ISR = value
			st.ISRShiftCount = 0
		case base.MOV_DEST_OSR:
			st.OSR = value
			st.OSRShiftCount = 0
		}
		return advance, 0
	},
	"NOP": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		return advance, 0
	},
	"SET": func(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
		data := uint32(op.Args[0].RawValue)
		st := sm.State

		switch op.Args[1].RawValue {
		case base.SET_DEST_PINS:
			writePins(io, sm.Config.SetBase, sm.Config.SetCount, data)
		case base.SET_DEST_X:
			st.X = data
		case base.SET_DEST_Y:
			st.Y = data
		case base.SET_DEST_PINDIRS:
			writePindirs(io, sm.Config.SetBase, sm.Config.SetCount, data)
		default:
			st.DebugFlags.IncreaseUnsupportedOp("SET <reserved>")
		}
		return advance, 0
	},
}

func applyOp(op base.Op, sm *StateMachine, io *GPIOBank) (outcome, uint8) {
	f, found := opTable[op.Name]
	if !found {
		// IRQ and friends. Not needed by anything we load.
		sm.State.DebugFlags.IncreaseUnsupportedOp(op.Name)
		return advance, 0
	}
	return f(op, sm, io)
}

func applySideSet(sm *StateMachine, io *GPIOBank, side uint16) {
	for i := 0; i < sm.Config.SidesetCount; i++ {
		pin := (sm.Config.SidesetBase + uint8(i)) % 32
		level := side&(1<<i) != 0
		if sm.Config.SidesetPindirs {
			io.setPIODirection(pin, level)
		} else {
			io.setPIOOutput(pin, level)
		}
	}
}
