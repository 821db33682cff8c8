package monitor

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/csync"
	"github.com/handegar/csyncpio/logger"
)

// Snapshot is what every view gets on each tick
type Snapshot struct {
	Status       csync.Status
	Cycles       uint64 // System clock cycles simulated so far
	TimeConstant uint32
}

// PollFunc takes a snapshot. Must be safe to call from the monitor
// goroutine while the generator runs.
type PollFunc func() Snapshot

type View interface {
	Update(s Snapshot) error
	Close() error
}

// Run polls every 'interval' and hands the snapshot to the views until
// ctx is done. A final snapshot is taken on the way out. Every view is
// closed; the first close error is returned when nothing else failed.
func Run(ctx context.Context, interval time.Duration, poll PollFunc, views ...View) (err error) {
	if interval <= 0 {
		return errors.Errorf("monitor interval must be positive, got %s", interval)
	}

	defer func() {
		for _, v := range views {
			if cerr := v.Close(); cerr != nil {
				logger.Logf("monitor error", "closing %T: %s", v, cerr)
				if err == nil {
					err = errors.Wrap(cerr, "closing view")
				}
			}
		}
	}()

	update := func() error {
		s := poll()
		for _, v := range views {
			if err := v.Update(s); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return update()
		case <-ticker.C:
			if err := update(); err != nil {
				return err
			}
		}
	}
}

// Interactive reports whether 'f' is a terminal the dashboard can take over
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
