package pio

import (
	"github.com/handegar/csyncpio/base"
)

func DecodeOp(opcode uint16) base.Op {
	opcodeNum := base.Opcode(opcode) // Upper 3 bits
	opOriginal := base.Ops[opcodeNum]

	var op base.Op
	op.Name = opOriginal.Name
	op.RawValue = opcode
	op.DelaySideSet = base.DelaySideSetField(opcode)

	// Copy over all args
	for _, a := range opOriginal.Args {
		op.Args = append(op.Args, a)
	}

	bitPos := 0
	for i, arg := range op.Args {
		paramBits := (opcode >> bitPos) & ((1 << arg.Len) - 1)
		if arg.Type != base.Blank {
			op.Args[i].RawValue = paramBits
		}
		bitPos += arg.Len
	}

	//
	// Special cases
	//
	if op.Name == "PUSH" && op.Args[3].RawValue == 1 {
		op.Name = "PULL"
	} else if op.Name == "MOV" &&
		op.Args[0].RawValue == base.MOV_SRC_Y &&
		op.Args[1].RawValue == base.MOV_OP_NONE &&
		op.Args[2].RawValue == base.MOV_DEST_Y {
		op.Name = "NOP" // 'mov y, y' is how pioasm spells nop
	}

	return op
}

func DecodeOpCodes(buffer []uint16) []base.Op {
	var ret []base.Op
	for _, b := range buffer {
		ret = append(ret, DecodeOp(b))
	}
	return ret
}
