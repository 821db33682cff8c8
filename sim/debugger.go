package sim

import (
	"fmt"
	"io"
	"os"

	"github.com/eiannone/keyboard"
	"github.com/fatih/color"

	"github.com/handegar/csyncpio/csync"
	"github.com/handegar/csyncpio/disasm"
	"github.com/handegar/csyncpio/pio"
	"github.com/handegar/csyncpio/utils"
)

const debugPrompt = "< (N)ext cycle | Next (e)dge | (V)iew state | (P)rint op | (C)ontinue | (Q)uit >"

// Debugger stops after every simulated cycle and waits for a key
type Debugger struct {
	Out    io.Writer
	GetKey func() (rune, keyboard.Key, error)
	Close  func() error

	skipToEdge bool
	running    bool
	lastCSync  bool
	cycle      uint64
}

func NewDebugger() *Debugger {
	return &Debugger{
		Out:    os.Stdout,
		GetKey: keyboard.GetKey,
		Close:  keyboard.Close,
	}
}

func (d *Debugger) printf(c color.Attribute, format string, args ...interface{}) {
	color.New(c).Fprintf(d.Out, format+"\n", args...)
}

func (d *Debugger) printOp(b *pio.Block, h *csync.Handle, pc uint8) {
	cfg := b.ConfigOf(h.Unit)
	op := pio.DecodeOp(b.InstructionAt(pc))
	d.printf(color.FgCyan, "  %s\t; %s",
		disasm.OpCodeToString(op, disasm.Listing{SidesetCount: cfg.SidesetCount, SidesetOptional: cfg.SidesetOptional}),
		disasm.OpDocs[op.Name].Short)
}

// Step is called after every cycle. Returns ErrQuit when the user quits.
func (d *Debugger) Step(b *pio.Block, h *csync.Handle, s Sample) error {
	d.cycle++
	if d.running {
		return nil
	}

	edge := s.CSync != d.lastCSync
	d.lastCSync = s.CSync
	if d.skipToEdge {
		if !edge {
			return nil
		}
		d.skipToEdge = false
	}

	st := b.StateOf(h.Unit)
	d.printf(color.FgBlue, "cycle=%d PC=%d (idx %d) X=%d Y=%d delay=%d stalled=%t",
		d.cycle, st.PC, h.Index(st.PC), st.X, st.Y, st.DelayCount, st.Stalled)
	d.printOp(b, h, st.PC)
	d.printf(color.FgWhite, "  => HS=%d VS=%d CS=%d", utils.BoolToInt(s.HSync), utils.BoolToInt(s.VSync), utils.BoolToInt(s.CSync))

	fmt.Fprintln(d.Out)
	d.printf(color.FgYellow, debugPrompt)
	for {
		char, _, err := d.GetKey()
		if err != nil {
			return err
		}

		switch char {
		case 'q':
			_ = d.Close()
			return ErrQuit
		case 'p':
			d.printOp(b, h, st.PC)
			d.printf(color.FgYellow, debugPrompt)
		case 'v':
			st.Fprint(d.Out)
			d.printf(color.FgYellow, debugPrompt)
		case 'n':
			return nil
		case 'e':
			d.skipToEdge = true
			d.printf(color.FgRed, "Running to the next CSYNC edge")
			return nil
		case 'c':
			d.running = true
			_ = d.Close()
			d.printf(color.FgRed, "Continuing without stepping")
			return nil
		}
	}
}
