package base

// Assembler builds instruction words for a given side-set configuration.
type Assembler struct {
	SidesetCount    int
	SidesetOptional bool
}

type Instruction struct {
	asm     Assembler
	word    uint16 // Opcode and argument bits only
	side    uint16
	hasSide bool
	delay   uint16
}

func (a Assembler) instr(opcode uint16, args uint16) Instruction {
	return Instruction{asm: a, word: opcode<<OPCODE_SHIFT | (args & ARG_MASK)}
}

func (a Assembler) Jmp(cond uint16, addr uint8) Instruction {
	return a.instr(OP_JMP, cond<<JMP_COND_SHIFT|uint16(addr)&INDEX_MASK)
}

func (a Assembler) Wait(polarity bool, src uint16, index uint8) Instruction {
	args := src<<WAIT_SRC_SHIFT | uint16(index)&INDEX_MASK
	if polarity {
		args |= WAIT_POLARITY_BIT
	}
	return a.instr(OP_WAIT, args)
}

func (a Assembler) WaitGPIO(polarity bool, gpio uint8) Instruction {
	return a.Wait(polarity, WAIT_SRC_GPIO, gpio)
}

// A bit count of 32 is encoded as 0
func (a Assembler) In(src uint16, count uint8) Instruction {
	return a.instr(OP_IN, src<<5|uint16(count)&INDEX_MASK)
}

func (a Assembler) Out(dest uint16, count uint8) Instruction {
	return a.instr(OP_OUT, dest<<5|uint16(count)&INDEX_MASK)
}

func (a Assembler) Push(ifFull bool, block bool) Instruction {
	var args uint16
	if ifFull {
		args |= 1 << 6
	}
	if block {
		args |= 1 << 5
	}
	return a.instr(OP_PUSHPULL, args)
}

func (a Assembler) Pull(ifEmpty bool, block bool) Instruction {
	args := PULL_BIT
	if ifEmpty {
		args |= 1 << 6
	}
	if block {
		args |= 1 << 5
	}
	return a.instr(OP_PUSHPULL, args)
}

func (a Assembler) Mov(dest uint16, op uint16, src uint16) Instruction {
	return a.instr(OP_MOV, dest<<5|(op&0b11)<<3|src&0b111)
}

func (a Assembler) Nop() Instruction {
	return a.Mov(MOV_DEST_Y, MOV_OP_NONE, MOV_SRC_Y)
}

func (a Assembler) Set(dest uint16, data uint8) Instruction {
	return a.instr(OP_SET, dest<<5|uint16(data)&INDEX_MASK)
}

func (i Instruction) Side(value uint8) Instruction {
	i.side = uint16(value)
	i.hasSide = true
	return i
}

func (i Instruction) Delay(cycles uint8) Instruction {
	i.delay = uint16(cycles)
	return i
}

func (i Instruction) Encode() uint16 {
	delayBits := DelayBits(i.asm.SidesetCount, i.asm.SidesetOptional)
	field := i.delay & ((1 << delayBits) - 1)
	if i.hasSide && i.asm.SidesetCount > 0 {
		field |= (i.side & ((1 << i.asm.SidesetCount) - 1)) << delayBits
		if i.asm.SidesetOptional {
			field |= 0x10
		}
	}
	return i.word | field<<DELAY_SIDESET_SHIFT
}
