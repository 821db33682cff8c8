package base

// Major opcodes, bits 15..13 of every instruction word
const (
	OP_JMP      uint16 = 0b000
	OP_WAIT     uint16 = 0b001
	OP_IN       uint16 = 0b010
	OP_OUT      uint16 = 0b011
	OP_PUSHPULL uint16 = 0b100
	OP_MOV      uint16 = 0b101
	OP_IRQ      uint16 = 0b110
	OP_SET      uint16 = 0b111
)

// Instruction word layout
const (
	OPCODE_SHIFT        = 13
	DELAY_SIDESET_SHIFT = 8
	DELAY_SIDESET_BITS  = 5

	DELAY_SIDESET_MASK uint16 = 0x1F00
	ARG_MASK           uint16 = 0x00FF
	INDEX_MASK         uint16 = 0x001F // wait index, jmp address, bit count, set data
	WAIT_POLARITY_BIT  uint16 = 0x0080
	PULL_BIT           uint16 = 0x0080
)

// Hardware sizes of one PIO block (RP2350)
const (
	INSTRUCTION_MEMORY_SIZE = 32
	NUM_STATE_MACHINES      = 4
	FIFO_DEPTH              = 4
)

// JMP conditions (bits 7..5)
const (
	JMP_ALWAYS     uint16 = 0b000
	JMP_X_ZERO     uint16 = 0b001
	JMP_X_DEC      uint16 = 0b010
	JMP_Y_ZERO     uint16 = 0b011
	JMP_Y_DEC      uint16 = 0b100
	JMP_X_NOT_Y    uint16 = 0b101
	JMP_PIN        uint16 = 0b110
	JMP_NOT_OSRE   uint16 = 0b111
	JMP_COND_SHIFT        = 5
)

// WAIT sources (bits 6..5)
const (
	WAIT_SRC_GPIO    uint16 = 0b00
	WAIT_SRC_PIN     uint16 = 0b01
	WAIT_SRC_IRQ     uint16 = 0b10
	WAIT_SRC_JMPPIN  uint16 = 0b11
	WAIT_SRC_SHIFT          = 5
	WAIT_SRC_MASK    uint16 = 0x0060
)

// IN sources (bits 7..5)
const (
	IN_SRC_PINS uint16 = 0b000
	IN_SRC_X    uint16 = 0b001
	IN_SRC_Y    uint16 = 0b010
	IN_SRC_NULL uint16 = 0b011
	IN_SRC_ISR  uint16 = 0b110
	IN_SRC_OSR  uint16 = 0b111
)

// OUT destinations (bits 7..5)
const (
	OUT_DEST_PINS    uint16 = 0b000
	OUT_DEST_X       uint16 = 0b001
	OUT_DEST_Y       uint16 = 0b010
	OUT_DEST_NULL    uint16 = 0b011
	OUT_DEST_PINDIRS uint16 = 0b100
	OUT_DEST_PC      uint16 = 0b101
	OUT_DEST_ISR     uint16 = 0b110
	OUT_DEST_EXEC    uint16 = 0b111
)

// MOV destinations (bits 7..5), operations (bits 4..3) and sources (bits 2..0)
const (
	MOV_DEST_PINS    uint16 = 0b000
	MOV_DEST_X       uint16 = 0b001
	MOV_DEST_Y       uint16 = 0b010
	MOV_DEST_PINDIRS uint16 = 0b011
	MOV_DEST_EXEC    uint16 = 0b100
	MOV_DEST_PC      uint16 = 0b101
	MOV_DEST_ISR     uint16 = 0b110
	MOV_DEST_OSR     uint16 = 0b111

	MOV_OP_NONE    uint16 = 0b00
	MOV_OP_INVERT  uint16 = 0b01
	MOV_OP_REVERSE uint16 = 0b10

	MOV_SRC_PINS   uint16 = 0b000
	MOV_SRC_X      uint16 = 0b001
	MOV_SRC_Y      uint16 = 0b010
	MOV_SRC_NULL   uint16 = 0b011
	MOV_SRC_STATUS uint16 = 0b101
	MOV_SRC_ISR    uint16 = 0b110
	MOV_SRC_OSR    uint16 = 0b111
)

// SET destinations (bits 7..5)
const (
	SET_DEST_PINS    uint16 = 0b000
	SET_DEST_X       uint16 = 0b001
	SET_DEST_Y       uint16 = 0b010
	SET_DEST_PINDIRS uint16 = 0b100
)

func Opcode(word uint16) uint16 {
	return word >> OPCODE_SHIFT
}

func DelaySideSetField(word uint16) uint16 {
	return (word & DELAY_SIDESET_MASK) >> DELAY_SIDESET_SHIFT
}

// Number of bits left for the delay once side-set has taken its share
// of the 5 bit field. An optional side-set costs one extra enable bit.
func DelayBits(sidesetCount int, optional bool) int {
	used := sidesetCount
	if optional {
		used++
	}
	return DELAY_SIDESET_BITS - used
}

// Splits the raw delay/side-set field. 'valid' is false when the
// side-set is optional and this instruction does not assert it.
func SplitDelaySideSet(field uint16, sidesetCount int, optional bool) (side uint16, valid bool, delay uint16) {
	delayBits := DelayBits(sidesetCount, optional)
	delay = field & ((1 << delayBits) - 1)
	if sidesetCount == 0 {
		return 0, false, delay
	}
	side = (field >> delayBits) & ((1 << sidesetCount) - 1)
	valid = true
	if optional {
		valid = field&0x10 != 0
	}
	return side, valid, delay
}

// Mask of the side-set value bits inside a full instruction word
func SideSetMask(sidesetCount int, optional bool) uint16 {
	delayBits := DelayBits(sidesetCount, optional)
	return uint16((1<<sidesetCount)-1) << (DELAY_SIDESET_SHIFT + delayBits)
}
