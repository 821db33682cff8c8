package pio

import (
	"testing"

	"github.com/handegar/csyncpio/base"
)

var asm = base.Assembler{SidesetCount: 1}

// Loads 'prog' at origin 0 on sm0 and enables it
func setupBlock(t *testing.T, prog []uint16, cfg SMConfig) *Block {
	b := NewBlock(0, 1000000, 30)
	offset, err := b.AddProgram(prog, 0)
	if err != nil {
		t.Fatalf("AddProgram failed: %s", err)
	}
	if err := b.ClaimSM(0); err != nil {
		t.Fatalf("ClaimSM failed: %s", err)
	}
	if err := b.SMInit(0, offset, cfg); err != nil {
		t.Fatalf("SMInit failed: %s", err)
	}
	if err := b.SetEnabled(0, true); err != nil {
		t.Fatalf("SetEnabled failed: %s", err)
	}
	return b
}

func Test_DecodeOp(t *testing.T) {
	t.Run("PULL", func(t *testing.T) {
		op := DecodeOp(0x90A0)
		if op.Name != "PULL" {
			t.Errorf("0x90A0 is not PULL. Got %s", op.Name)
		}
		if op.Args[1].RawValue != 1 || op.Args[2].RawValue != 0 {
			t.Errorf("PULL: block=%d ifempty=%d", op.Args[1].RawValue, op.Args[2].RawValue)
		}
		if op.DelaySideSet != 0x10 {
			t.Errorf("PULL: delay/side-set field != 0x10. Got %#x", op.DelaySideSet)
		}
	})

	t.Run("WAIT", func(t *testing.T) {
		op := DecodeOp(0x3083)
		if op.Name != "WAIT" {
			t.Fatalf("0x3083 is not WAIT. Got %s", op.Name)
		}
		if op.Args[0].RawValue != 3 || op.Args[1].RawValue != base.WAIT_SRC_GPIO || op.Args[2].RawValue != 1 {
			t.Errorf("WAIT: index=%d src=%d pol=%d",
				op.Args[0].RawValue, op.Args[1].RawValue, op.Args[2].RawValue)
		}
	})

	t.Run("JMP", func(t *testing.T) {
		op := DecodeOp(0x00C7)
		if op.Name != "JMP" || op.Args[0].RawValue != 7 || op.Args[1].RawValue != base.JMP_PIN {
			t.Errorf("0x00C7: %s addr=%d cond=%d", op.Name, op.Args[0].RawValue, op.Args[1].RawValue)
		}
	})

	t.Run("NOP", func(t *testing.T) {
		if op := DecodeOp(0xA042); op.Name != "NOP" {
			t.Errorf("0xA042 is not NOP. Got %s", op.Name)
		}
		if op := DecodeOp(0xA022); op.Name != "MOV" {
			t.Errorf("0xA022 is not MOV. Got %s", op.Name)
		}
	})

	t.Run("All opcodes", func(t *testing.T) {
		names := []string{"JMP", "WAIT", "IN", "OUT", "PUSH", "MOV", "IRQ", "SET"}
		for i, name := range names {
			op := DecodeOp(uint16(i) << base.OPCODE_SHIFT)
			if op.Name != name {
				t.Errorf("opcode %d: expected %s, got %s", i, name, op.Name)
			}
		}
	})
}

func Test_SideSetAndDelay(t *testing.T) {
	prog := []uint16{
		asm.Nop().Side(1).Delay(2).Encode(),
		asm.Nop().Side(0).Encode(),
	}
	cfg := DefaultSMConfig()
	cfg.SetWrap(0, 1)
	cfg.SetSideset(1, false, false)
	cfg.SetSidesetPins(5)

	b := setupBlock(t, prog, cfg)
	b.PIOGPIOInit(5)
	b.SetConsecutivePindirs(0, 5, 1, true)

	expected := []bool{true, true, true, false, true, true, true, false}
	for i, e := range expected {
		b.Step()
		if got := b.GPIOGet(5); got != e {
			t.Errorf("cycle %d: side-set pin = %t, expected %t", i+1, got, e)
		}
	}
}

func Test_JmpXDec(t *testing.T) {
	prog := []uint16{
		asm.Set(base.SET_DEST_X, 3).Encode(), // 0: set x, 3
		asm.Jmp(base.JMP_X_DEC, 1).Encode(),  // 1: jmp x--, 1
		asm.Jmp(base.JMP_ALWAYS, 2).Encode(), // 2: jmp 2
	}
	b := setupBlock(t, prog, DefaultSMConfig())

	b.Run(4)
	st := b.StateOf(0)
	if st.PC != 1 || st.X != 0 {
		t.Errorf("After 4 cycles: PC=%d X=%d, expected PC=1 X=0", st.PC, st.X)
	}

	b.Step()
	st = b.StateOf(0)
	if st.PC != 2 || st.X != 0xFFFFFFFF {
		t.Errorf("After 5 cycles: PC=%d X=%#x, expected PC=2 X=0xffffffff", st.PC, st.X)
	}
}

func Test_PullOut(t *testing.T) {
	prog := []uint16{
		asm.Pull(false, true).Encode(),        // 0: pull block
		asm.Out(base.OUT_DEST_Y, 32).Encode(), // 1: out y, 32
		asm.Jmp(base.JMP_ALWAYS, 2).Encode(),  // 2: jmp 2
	}

	t.Run("Blocking pull stalls", func(t *testing.T) {
		b := setupBlock(t, prog, DefaultSMConfig())
		b.Run(3)
		st := b.StateOf(0)
		if st.PC != 0 || !st.Stalled {
			t.Errorf("PC=%d stalled=%t, expected PC=0 stalled", st.PC, st.Stalled)
		}
		if st.DebugFlags.TxStallCycles != 3 {
			t.Errorf("TxStallCycles != 3. Got %d", st.DebugFlags.TxStallCycles)
		}

		b.Put(0, 42)
		b.Run(2)
		if st = b.StateOf(0); st.Y != 42 {
			t.Errorf("Y != 42. Got %d", st.Y)
		}
	})

	t.Run("Pulled value reaches Y", func(t *testing.T) {
		b := NewBlock(0, 1000000, 30)
		offset, _ := b.AddProgram(prog, 0)
		b.SMInit(0, offset, DefaultSMConfig())
		if !b.Put(0, 0xCAFEBABE) {
			t.Fatalf("Put to an empty TX FIFO failed")
		}
		b.SetEnabled(0, true)
		b.Run(2)

		st := b.StateOf(0)
		if st.Y != 0xCAFEBABE {
			t.Errorf("Y != 0xCAFEBABE. Got %#x", st.Y)
		}
		if st.OSRShiftCount != 32 {
			t.Errorf("OSR not empty after 'out y, 32': count=%d", st.OSRShiftCount)
		}
		if len(st.TxFIFO) != 0 {
			t.Errorf("TX FIFO not drained: %v", st.TxFIFO)
		}
	})
}

func Test_Wait(t *testing.T) {
	prog := []uint16{
		asm.WaitGPIO(true, 3).Encode(),       // 0: wait 1 gpio, 3
		asm.Jmp(base.JMP_ALWAYS, 1).Encode(), // 1: jmp 1
	}
	b := setupBlock(t, prog, DefaultSMConfig())
	b.GPIOInit(3)
	b.GPIODisablePulls(3)

	b.Run(5)
	st := b.StateOf(0)
	if st.PC != 0 || st.DebugFlags.WaitStallCycles != 5 {
		t.Errorf("PC=%d WaitStallCycles=%d, expected 0 and 5", st.PC, st.DebugFlags.WaitStallCycles)
	}

	b.GPIODrive(3, true)
	b.Step()
	if pc := b.GetPC(0); pc != 1 {
		t.Errorf("WAIT did not complete once the pin went high. PC=%d", pc)
	}
}

func Test_JmpPin(t *testing.T) {
	prog := []uint16{
		asm.Jmp(base.JMP_PIN, 2).Encode(),    // 0: jmp pin, 2
		asm.Jmp(base.JMP_ALWAYS, 1).Encode(), // 1: jmp 1
		asm.Jmp(base.JMP_ALWAYS, 2).Encode(), // 2: jmp 2
	}
	cfg := DefaultSMConfig()
	cfg.SetJmpPin(7)

	t.Run("Pin low", func(t *testing.T) {
		b := setupBlock(t, prog, cfg)
		b.GPIODrive(7, false)
		b.Run(2)
		if pc := b.GetPC(0); pc != 1 {
			t.Errorf("PC != 1. Got %d", pc)
		}
	})

	t.Run("Pin high", func(t *testing.T) {
		b := setupBlock(t, prog, cfg)
		b.GPIODrive(7, true)
		b.Run(2)
		if pc := b.GetPC(0); pc != 2 {
			t.Errorf("PC != 2. Got %d", pc)
		}
	})
}

func Test_Mov(t *testing.T) {
	prog := []uint16{
		asm.Set(base.SET_DEST_X, 1).Encode(),                                 // 0: set x, 1
		asm.Mov(base.MOV_DEST_Y, base.MOV_OP_REVERSE, base.MOV_SRC_X).Encode(), // 1: mov y, ::x
		asm.Mov(base.MOV_DEST_ISR, base.MOV_OP_INVERT, base.MOV_SRC_NULL).Encode(), // 2: mov isr, !null
		asm.Jmp(base.JMP_ALWAYS, 3).Encode(),                                 // 3: jmp 3
	}
	b := setupBlock(t, prog, DefaultSMConfig())
	b.Run(3)

	st := b.StateOf(0)
	if st.Y != 0x80000000 {
		t.Errorf("mov y, ::x: Y != 0x80000000. Got %#x", st.Y)
	}
	if st.ISR != 0xFFFFFFFF {
		t.Errorf("mov isr, !null: ISR != 0xffffffff. Got %#x", st.ISR)
	}
}

func Test_InPush(t *testing.T) {
	prog := []uint16{
		asm.Set(base.SET_DEST_Y, 5).Encode(),  // 0: set y, 5
		asm.In(base.IN_SRC_Y, 32).Encode(),    // 1: in y, 32
		asm.Push(false, true).Encode(),        // 2: push block
		asm.Jmp(base.JMP_ALWAYS, 3).Encode(),  // 3: jmp 3
	}
	b := setupBlock(t, prog, DefaultSMConfig())
	b.Run(3)

	v, ok := b.Get(0)
	if !ok || v != 5 {
		t.Errorf("RX FIFO: got (%d, %t), expected (5, true)", v, ok)
	}
	if st := b.StateOf(0); st.ISR != 0 || st.ISRShiftCount != 0 {
		t.Errorf("ISR not cleared by push: %#x (%d)", st.ISR, st.ISRShiftCount)
	}
}

func Test_ClockDivider(t *testing.T) {
	prog := []uint16{
		asm.Set(base.SET_DEST_X, 1).Encode(),
		asm.Set(base.SET_DEST_X, 2).Encode(),
		asm.Jmp(base.JMP_ALWAYS, 2).Encode(),
	}
	cfg := DefaultSMConfig()
	cfg.SetClkDiv(2)
	b := setupBlock(t, prog, cfg)

	b.Step()
	if st := b.StateOf(0); st.X != 0 {
		t.Errorf("X changed on the first divided cycle: %d", st.X)
	}
	b.Step()
	if st := b.StateOf(0); st.X != 1 {
		t.Errorf("X != 1 after 2 cycles. Got %d", st.X)
	}
	b.Run(2)
	if st := b.StateOf(0); st.X != 2 {
		t.Errorf("X != 2 after 4 cycles. Got %d", st.X)
	}
	if c := b.Cycles(); c != 4 {
		t.Errorf("Block clocked %d cycles, expected 4", c)
	}
}

func Test_UnsupportedOp(t *testing.T) {
	prog := []uint16{
		0xC000,                               // 0: irq nowait 0
		asm.Jmp(base.JMP_ALWAYS, 1).Encode(), // 1: jmp 1
	}
	b := setupBlock(t, prog, DefaultSMConfig())
	b.Run(2)

	st := b.StateOf(0)
	if st.DebugFlags.UnsupportedOpCount != 1 || st.DebugFlags.LastUnsupported != "IRQ" {
		t.Errorf("UnsupportedOpCount=%d last='%s'",
			st.DebugFlags.UnsupportedOpCount, st.DebugFlags.LastUnsupported)
	}
	if st.PC != 1 {
		t.Errorf("Unsupported op did not advance. PC=%d", st.PC)
	}
}
