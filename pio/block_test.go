package pio

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/base"
)

func Test_InstructionMemory(t *testing.T) {
	prog := make([]uint16, 9)
	for i := range prog {
		prog[i] = asm.Nop().Encode()
	}

	t.Run("Top-down allocation", func(t *testing.T) {
		b := NewBlock(0, 1000000, 30)
		expected := []uint8{23, 14, 5}
		for i, e := range expected {
			offset, err := b.AddProgram(prog, -1)
			if err != nil {
				t.Fatalf("program %d: unexpected error %s", i, err)
			}
			if offset != e {
				t.Errorf("program %d: offset %d, expected %d", i, offset, e)
			}
		}

		if b.CanAddProgram(len(prog), -1) {
			t.Errorf("A fourth 9 word program should not fit")
		}
		_, err := b.AddProgram(prog, -1)
		if errors.Cause(err) != ErrNoSpace {
			t.Errorf("Expected ErrNoSpace, got %v", err)
		}

		b.RemoveProgram(len(prog), 14)
		if !b.CanAddProgram(len(prog), -1) {
			t.Errorf("Space not released by RemoveProgram. Used mask %#x", b.UsedMask())
		}
	})

	t.Run("Fixed origin", func(t *testing.T) {
		b := NewBlock(0, 1000000, 30)
		if _, err := b.AddProgram(prog, 0); err != nil {
			t.Fatalf("origin 0: %s", err)
		}
		if _, err := b.AddProgram(prog, 4); err == nil {
			t.Errorf("Overlapping origin accepted")
		}
		if _, err := b.AddProgram(prog, 30); err == nil {
			t.Errorf("Program running past the end accepted")
		}
	})

	t.Run("JMP relocation", func(t *testing.T) {
		b := NewBlock(0, 1000000, 30)
		jmps := []uint16{
			asm.Jmp(base.JMP_X_DEC, 0).Encode(),
			asm.Jmp(base.JMP_PIN, 2).Side(1).Encode(),
			asm.Nop().Encode(),
		}
		offset, err := b.AddProgram(jmps, -1)
		if err != nil {
			t.Fatalf("AddProgram: %s", err)
		}
		if offset != 29 {
			t.Fatalf("offset != 29. Got %d", offset)
		}

		if w := b.InstructionAt(29); w != 0x005D {
			t.Errorf("jmp x--, 0 not relocated to 29: %#x", w)
		}
		if w := b.InstructionAt(30); w != 0x10DF {
			t.Errorf("jmp pin, 2 side 1 not relocated to 31: %#x", w)
		}
		if w := b.InstructionAt(31); w != 0xA042 {
			t.Errorf("nop changed by relocation: %#x", w)
		}
	})
}

func Test_StateMachinePool(t *testing.T) {
	b := NewBlock(0, 1000000, 30)
	for i := 0; i < base.NUM_STATE_MACHINES; i++ {
		sm, err := b.ClaimUnusedSM()
		if err != nil {
			t.Fatalf("claim %d failed: %s", i, err)
		}
		if sm != i {
			t.Errorf("claim %d returned sm%d", i, sm)
		}
	}

	if _, err := b.ClaimUnusedSM(); errors.Cause(err) != ErrNoStateMachine {
		t.Errorf("Expected ErrNoStateMachine, got %v", err)
	}
	if err := b.ClaimSM(2); err == nil {
		t.Errorf("ClaimSM on a claimed state machine succeeded")
	}

	b.UnclaimSM(2)
	if b.IsClaimed(2) {
		t.Errorf("sm2 still claimed")
	}
	if sm, err := b.ClaimUnusedSM(); err != nil || sm != 2 {
		t.Errorf("Expected sm2 back, got %d (%v)", sm, err)
	}

	if err := b.SetEnabled(7, true); errors.Cause(err) != ErrInvalidSM {
		t.Errorf("Expected ErrInvalidSM for sm7, got %v", err)
	}
}

func Test_PutBlocking(t *testing.T) {
	b := NewBlock(0, 1000000, 30)
	for i := 0; i < base.FIFO_DEPTH; i++ {
		if !b.Put(0, uint32(i)) {
			t.Fatalf("Put %d failed", i)
		}
	}
	if b.Put(0, 99) {
		t.Errorf("Put succeeded on a full FIFO")
	}
	if lvl := b.TxLevel(0); lvl != base.FIFO_DEPTH {
		t.Errorf("TxLevel != %d. Got %d", base.FIFO_DEPTH, lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.PutBlocking(ctx, 0, 99)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// Room appears once the state machine pulls
	prog := []uint16{
		asm.Pull(false, true).Encode(),
		asm.Jmp(base.JMP_ALWAYS, 0).Encode(),
	}
	offset, _ := b.AddProgram(prog, 0)
	cfg := DefaultSMConfig()
	b.SMInit(0, offset, cfg) // Empties the FIFOs
	if lvl := b.TxLevel(0); lvl != 0 {
		t.Errorf("SMInit did not empty the TX FIFO: %d", lvl)
	}
	if err := b.PutBlocking(context.Background(), 0, 7); err != nil {
		t.Errorf("PutBlocking on an empty FIFO: %s", err)
	}
	b.SetEnabled(0, true)
	b.Step()
	if st := b.StateOf(0); st.OSR != 7 {
		t.Errorf("OSR != 7. Got %d", st.OSR)
	}
}

func Test_CyclesConcurrent(t *testing.T) {
	b := NewBlock(0, 1000000, 30)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(1000)
	}()

	last := uint64(0)
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		c := b.Cycles()
		if c < last {
			t.Fatalf("Cycle count went backwards: %d after %d", c, last)
		}
		last = c
	}
	if c := b.Cycles(); c != 1000 {
		t.Errorf("Cycles() = %d, expected 1000", c)
	}
}

func Test_GPIOBank(t *testing.T) {
	g := NewGPIOBank(30)

	t.Run("Reset state", func(t *testing.T) {
		up, down := g.Pulls(4)
		if up || !down {
			t.Errorf("pin 4 after reset: up=%t down=%t, expected pull-down only", up, down)
		}
		if g.Get(4) {
			t.Errorf("pulled down pin reads high")
		}
		if g.Floating(4) {
			t.Errorf("pulled down pin reported floating")
		}
	})

	t.Run("Pulls", func(t *testing.T) {
		g.SetPulls(4, true, false)
		if !g.Get(4) {
			t.Errorf("pulled up pin reads low")
		}
		g.DisablePulls(4)
		if !g.Floating(4) {
			t.Errorf("pin without pulls or driver is not floating")
		}
	})

	t.Run("External drive", func(t *testing.T) {
		g.Drive(4, true)
		if !g.Get(4) {
			t.Errorf("driven high pin reads low")
		}
		g.Release(4)
		if g.Get(4) {
			t.Errorf("released pin still reads high")
		}
	})

	t.Run("PIO output wins", func(t *testing.T) {
		g.SetFunction(6, FUNC_PIO)
		g.Drive(6, false)
		g.setPIODirection(6, true)
		g.setPIOOutput(6, true)
		if !g.Get(6) || !g.IsOutput(6) {
			t.Errorf("PIO driven pin: level=%t output=%t", g.Get(6), g.IsOutput(6))
		}
	})

	t.Run("Out of range", func(t *testing.T) {
		g.Drive(40, true)
		if g.Get(40) {
			t.Errorf("pin 40 exists on a 30 pin bank")
		}
		if g.Function(40) != FUNC_NULL {
			t.Errorf("pin 40 has a function")
		}
	})
}
