package sim

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/csync"
	"github.com/handegar/csyncpio/pio"
)

// Cycles run between two looks at the context
const BATCH_CYCLES = 4096

// ErrQuit is returned when the user leaves the step debugger
var ErrQuit = errors.New("quit")

// Runner feeds a stimulus into a running generator, one system clock
// cycle at a time, and records the pins.
type Runner struct {
	Block    *pio.Block
	Handle   *csync.Handle
	Pins     csync.PinAssignment
	Stimulus Stimulus
	Capture  *Capture
	Debugger *Debugger // Optional

	cycles atomic.Uint64
}

// Cycles simulated so far. Safe to call from other goroutines.
func (r *Runner) Cycles() uint64 {
	return r.cycles.Load()
}

// A stimulus that can fail mid-stream reports it through Err()
func (r *Runner) stimulusErr() error {
	if e, ok := r.Stimulus.(interface{ Err() error }); ok {
		if err := e.Err(); err != nil {
			return errors.Wrapf(err, "stimulus ended after %d cycles", r.Cycles())
		}
	}
	return nil
}

// Run steps until the stimulus ends, the context is done or the user
// quits the debugger. The sync inputs are no longer driven afterwards.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		r.Block.GPIORelease(r.Pins.HSync)
		r.Block.GPIORelease(r.Pins.VSync)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i := 0; i < BATCH_CYCLES; i++ {
			lv, ok := r.Stimulus.Next()
			if !ok {
				return r.stimulusErr()
			}

			r.Block.GPIODrive(r.Pins.HSync, lv.HSync)
			r.Block.GPIODrive(r.Pins.VSync, lv.VSync)
			r.Block.Step()
			r.cycles.Add(1)

			s := Sample{HSync: lv.HSync, VSync: lv.VSync, CSync: r.Block.GPIOGet(r.Pins.CSync)}
			if r.Capture != nil {
				r.Capture.Record(s)
			}

			if r.Debugger != nil {
				if err := r.Debugger.Step(r.Block, r.Handle, s); err != nil {
					return err
				}
			}
		}
	}
}
