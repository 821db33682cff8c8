package pio

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
)

type DebugFlags struct {
	UnsupportedOpCount int
	IRQWaitCount       int

	WaitStallCycles uint64 // Cycles spent in a WAIT which was not yet satisfied
	TxStallCycles   uint64 // Cycles spent in a blocking PULL on an empty TX FIFO
	RxStallCycles   uint64 // Cycles spent in a blocking PUSH on a full RX FIFO

	DroppedPushCount int
	LastUnsupported  string
}

func (df *DebugFlags) IncreaseUnsupportedOp(name string) error {
	df.UnsupportedOpCount += 1
	df.LastUnsupported = name

	msg := fmt.Sprintf("Unsupported operation '%s': ", name)
	_, file, no, ok := runtime.Caller(1)
	if ok {
		msg += fmt.Sprintf("%s:%d", file, no)
	}
	return errors.New(msg)
}

func (df *DebugFlags) Reset() {
	df.UnsupportedOpCount = 0
	df.IRQWaitCount = 0
	df.WaitStallCycles = 0
	df.TxStallCycles = 0
	df.RxStallCycles = 0
	df.DroppedPushCount = 0
	df.LastUnsupported = ""
}

func (df *DebugFlags) Print() {
	df.Fprint(os.Stdout)
}

func (df *DebugFlags) Fprint(w io.Writer) {
	fmt.Fprintf(w, "DebugFlags:\n"+
		" UnsupportedOpCount = %d (last: '%s')\n"+
		" IRQWaitCount = %d\n"+
		" WaitStallCycles = %d\n"+
		" TxStallCycles = %d\n"+
		" RxStallCycles = %d\n"+
		" DroppedPushCount = %d\n",
		df.UnsupportedOpCount, df.LastUnsupported,
		df.IRQWaitCount,
		df.WaitStallCycles,
		df.TxStallCycles,
		df.RxStallCycles,
		df.DroppedPushCount)
}
