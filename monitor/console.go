package monitor

import (
	"io"

	"github.com/fatih/color"
)

var heartbeatColor = color.New(color.FgGreen)

// Console writes one heartbeat line per update
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Update(s Snapshot) error {
	_, err := heartbeatColor.Fprintln(c.out, s.Status.String())
	return err
}

func (c *Console) Close() error {
	return nil
}
