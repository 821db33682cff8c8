package base

const (
	UInt int = iota
	Addr
	BitCount
	Flag
	JmpCondition
	WaitSource
	InSource
	OutDestination
	MovDestination
	MovOperation
	MovSource
	SetDestination
	Blank
)

type OpArg struct {
	Len      int // Length of argument (in bits)
	Type     int
	RawValue uint16
}

type Op struct {
	Name         string
	Args         []OpArg
	RawValue     uint16
	DelaySideSet uint16 // Raw 5 bit field, split with SplitDelaySideSet()
}

// Arguments are listed from bit 0 and upwards. Bits 8..12 are the
// delay/side-set field and bits 13..15 the opcode.
var Ops = map[uint16]Op{
	OP_JMP: {"JMP",
		[]OpArg{{5, Addr, 0}, {3, JmpCondition, 0}},
		0, 0},
	OP_WAIT: {"WAIT",
		[]OpArg{{5, UInt, 0}, {2, WaitSource, 0}, {1, Flag, 0}}, // Index, source, polarity
		0, 0},
	OP_IN: {"IN",
		[]OpArg{{5, BitCount, 0}, {3, InSource, 0}},
		0, 0},
	OP_OUT: {"OUT",
		[]OpArg{{5, BitCount, 0}, {3, OutDestination, 0}},
		0, 0},
	OP_PUSHPULL: {"PUSH", // PULL if the last flag is set
		[]OpArg{{5, Blank, 0}, {1, Flag, 0}, {1, Flag, 0}, {1, Flag, 0}}, // -, block, iffull/ifempty, pull
		0, 0},
	OP_MOV: {"MOV", // Also NOP for 'mov y, y'
		[]OpArg{{3, MovSource, 0}, {2, MovOperation, 0}, {3, MovDestination, 0}},
		0, 0},
	OP_IRQ: {"IRQ",
		[]OpArg{{5, UInt, 0}, {1, Flag, 0}, {1, Flag, 0}, {1, Blank, 0}}, // Index, wait, clear
		0, 0},
	OP_SET: {"SET",
		[]OpArg{{5, UInt, 0}, {3, SetDestination, 0}},
		0, 0},
}

var JmpConditionSymbols = map[uint16]string{
	JMP_ALWAYS:   "",
	JMP_X_ZERO:   "!x",
	JMP_X_DEC:    "x--",
	JMP_Y_ZERO:   "!y",
	JMP_Y_DEC:    "y--",
	JMP_X_NOT_Y:  "x!=y",
	JMP_PIN:      "pin",
	JMP_NOT_OSRE: "!osre",
}

var WaitSourceSymbols = map[uint16]string{
	WAIT_SRC_GPIO:   "gpio",
	WAIT_SRC_PIN:    "pin",
	WAIT_SRC_IRQ:    "irq",
	WAIT_SRC_JMPPIN: "jmppin",
}

var InSourceSymbols = map[uint16]string{
	IN_SRC_PINS: "pins",
	IN_SRC_X:    "x",
	IN_SRC_Y:    "y",
	IN_SRC_NULL: "null",
	IN_SRC_ISR:  "isr",
	IN_SRC_OSR:  "osr",
}

var OutDestinationSymbols = map[uint16]string{
	OUT_DEST_PINS:    "pins",
	OUT_DEST_X:       "x",
	OUT_DEST_Y:       "y",
	OUT_DEST_NULL:    "null",
	OUT_DEST_PINDIRS: "pindirs",
	OUT_DEST_PC:      "pc",
	OUT_DEST_ISR:     "isr",
	OUT_DEST_EXEC:    "exec",
}

var MovDestinationSymbols = map[uint16]string{
	MOV_DEST_PINS:    "pins",
	MOV_DEST_X:       "x",
	MOV_DEST_Y:       "y",
	MOV_DEST_PINDIRS: "pindirs",
	MOV_DEST_EXEC:    "exec",
	MOV_DEST_PC:      "pc",
	MOV_DEST_ISR:     "isr",
	MOV_DEST_OSR:     "osr",
}

var MovOperationSymbols = map[uint16]string{
	MOV_OP_NONE:    "",
	MOV_OP_INVERT:  "!",
	MOV_OP_REVERSE: "::",
}

var MovSourceSymbols = map[uint16]string{
	MOV_SRC_PINS:   "pins",
	MOV_SRC_X:      "x",
	MOV_SRC_Y:      "y",
	MOV_SRC_NULL:   "null",
	MOV_SRC_STATUS: "status",
	MOV_SRC_ISR:    "isr",
	MOV_SRC_OSR:    "osr",
}

var SetDestinationSymbols = map[uint16]string{
	SET_DEST_PINS:    "pins",
	SET_DEST_X:       "x",
	SET_DEST_Y:       "y",
	SET_DEST_PINDIRS: "pindirs",
}
