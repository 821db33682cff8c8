package disasm

import (
	"fmt"
	"strings"

	"github.com/handegar/csyncpio/base"
	"github.com/handegar/csyncpio/settings"
)

// Listing describes how a program is laid out and which side-set
// configuration its words were assembled for.
type Listing struct {
	Name            string
	Origin          uint8
	WrapTarget      uint8 // Relative to the origin
	Wrap            uint8 // Relative to the origin
	SidesetCount    int
	SidesetOptional bool
	SidesetPindirs  bool
	ShowParamData   bool
}

func PrintCodeListing(opCodes []base.Op, l Listing) {
	fmt.Print(CodeListing(opCodes, l))
}

// CodeListing returns the program as pioasm source
func CodeListing(opCodes []base.Op, l Listing) string {
	s := strings.Builder{}
	if l.Name != "" {
		s.WriteString(fmt.Sprintf(".program %s\n", l.Name))
	}
	if l.SidesetCount > 0 {
		s.WriteString(fmt.Sprintf(".side_set %d", l.SidesetCount))
		if l.SidesetOptional {
			s.WriteString(" opt")
		}
		if l.SidesetPindirs {
			s.WriteString(" pindirs")
		}
		s.WriteString("\n")
	}
	if l.Origin != 0 && l.ShowParamData {
		s.WriteString(fmt.Sprintf(".origin %d\n", l.Origin))
	}

	for pos, opCode := range opCodes {
		if pos >= settings.MaxNumberOfOps {
			s.WriteString(fmt.Sprintf("; Max number of instructions reached (%d)\n",
				settings.MaxNumberOfOps))
			break
		}

		if uint8(pos) == l.WrapTarget {
			s.WriteString(".wrap_target\n")
		}
		s.WriteString("    ")
		s.WriteString(OpCodeToString(opCode, l))
		if l.ShowParamData {
			s.WriteString(paramData(opCode, int(l.Origin)+pos))
		}
		s.WriteString("\n")
		if uint8(pos) == l.Wrap {
			s.WriteString(".wrap\n")
		}
	}
	return s.String()
}

func paramData(opCode base.Op, addr int) string {
	ret := fmt.Sprintf("\t; @%02d %04X", addr, opCode.RawValue)
	if settings.PrintDebug {
		ret += fmt.Sprintf(" [0b%016b] ", opCode.RawValue)
		for i, v := range opCode.Args {
			if v.Type == base.Blank {
				continue
			}
			ret += fmt.Sprintf("#%d: 0x%x (%dbit), ", i, v.RawValue, v.Len)
		}
	}
	return ret
}

// OpCodeToString renders one instruction with its side-set and delay.
// No trailing whitespace.
func OpCodeToString(opcode base.Op, l Listing) string {
	var ret string

	switch opcode.Name {
	case "JMP":
		ret = JMP_ToString(opcode)
	case "WAIT":
		ret = WAIT_ToString(opcode)
	case "IN":
		ret = IN_ToString(opcode)
	case "OUT":
		ret = OUT_ToString(opcode)
	case "PUSH":
		ret = PUSH_ToString(opcode)
	case "PULL":
		ret = PULL_ToString(opcode)
	case "MOV":
		ret = MOV_ToString(opcode)
	case "NOP":
		ret = "nop"
	case "IRQ":
		ret = IRQ_ToString(opcode)
	case "SET":
		ret = SET_ToString(opcode)
	default:
		ret = fmt.Sprintf("<%s 0b%b>", opcode.Name, opcode.RawValue)
	}

	side, valid, delay := base.SplitDelaySideSet(opcode.DelaySideSet, l.SidesetCount, l.SidesetOptional)
	if !valid && delay == 0 {
		return ret
	}

	ret = fmt.Sprintf("%-24s", ret)
	if valid {
		ret += fmt.Sprintf("side %d", side)
	}
	if delay > 0 {
		ret += fmt.Sprintf(" [%d]", delay)
	}
	return strings.TrimSpace(ret)
}

func bitCount(raw uint16) uint16 {
	if raw == 0 {
		return 32
	}
	return raw
}

func JMP_ToString(op base.Op) string {
	cond := base.JmpConditionSymbols[op.Args[1].RawValue]
	if cond == "" {
		return fmt.Sprintf("jmp %d", op.Args[0].RawValue)
	}
	return fmt.Sprintf("jmp %s, %d", cond, op.Args[0].RawValue)
}

func WAIT_ToString(op base.Op) string {
	return fmt.Sprintf("wait %d %s %d",
		op.Args[2].RawValue,
		base.WaitSourceSymbols[op.Args[1].RawValue],
		op.Args[0].RawValue)
}

func IN_ToString(op base.Op) string {
	src, found := base.InSourceSymbols[op.Args[1].RawValue]
	if !found {
		src = "<reserved>"
	}
	return fmt.Sprintf("in %s, %d", src, bitCount(op.Args[0].RawValue))
}

func OUT_ToString(op base.Op) string {
	return fmt.Sprintf("out %s, %d",
		base.OutDestinationSymbols[op.Args[1].RawValue],
		bitCount(op.Args[0].RawValue))
}

func pushPullFlags(op base.Op, cond string) string {
	ret := ""
	if op.Args[2].RawValue == 1 {
		ret += cond + " "
	}
	if op.Args[1].RawValue == 1 {
		ret += "block"
	} else {
		ret += "noblock"
	}
	return ret
}

func PUSH_ToString(op base.Op) string {
	return "push " + pushPullFlags(op, "iffull")
}

func PULL_ToString(op base.Op) string {
	return "pull " + pushPullFlags(op, "ifempty")
}

func MOV_ToString(op base.Op) string {
	src, found := base.MovSourceSymbols[op.Args[0].RawValue]
	if !found {
		src = "<reserved>"
	}
	return fmt.Sprintf("mov %s, %s%s",
		base.MovDestinationSymbols[op.Args[2].RawValue],
		base.MovOperationSymbols[op.Args[1].RawValue],
		src)
}

func IRQ_ToString(op base.Op) string {
	mode := "nowait"
	if op.Args[2].RawValue == 1 {
		mode = "clear"
	} else if op.Args[1].RawValue == 1 {
		mode = "wait"
	}
	return fmt.Sprintf("irq %s %d", mode, op.Args[0].RawValue)
}

func SET_ToString(op base.Op) string {
	dest, found := base.SetDestinationSymbols[op.Args[1].RawValue]
	if !found {
		dest = "<reserved>"
	}
	return fmt.Sprintf("set %s, %d", dest, op.Args[0].RawValue)
}
