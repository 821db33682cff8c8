package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/handegar/csyncpio/csync"
	"github.com/handegar/csyncpio/disasm"
	"github.com/handegar/csyncpio/logger"
	"github.com/handegar/csyncpio/monitor"
	"github.com/handegar/csyncpio/pio"
	"github.com/handegar/csyncpio/reader"
	"github.com/handegar/csyncpio/settings"
	"github.com/handegar/csyncpio/sim"
	"github.com/handegar/csyncpio/utils"
	"github.com/handegar/csyncpio/writer"
)

func parseCommandLineParameters() {
	flag.StringVar(&settings.ConfigFile, "config", settings.ConfigFile, "YAML file with pins, polarity and timing")
	flag.StringVar(&settings.InputWav, "in", settings.InputWav, "Stimulus wav-file (HSYNC left, VSYNC right)")
	flag.StringVar(&settings.OutputWav, "out", settings.OutputWav, "Capture wav-file")
	flag.IntVar(&settings.Frames, "frames", settings.Frames, "Frames of synthetic stimulus")
	flag.IntVar(&settings.CyclesPerSample, "cycles-per-sample", settings.CyclesPerSample, "System clock cycles per wav sample")
	flag.BoolVar(&settings.PrintCode, "print-code", settings.PrintCode, "Print program code")
	flag.BoolVar(&settings.Monitor, "monitor", settings.Monitor, "Print a heartbeat while simulating")
	flag.BoolVar(&settings.Dashboard, "dashboard", settings.Dashboard, "Show a dashboard while simulating")
	flag.DurationVar(&settings.MonitorInterval, "interval", settings.MonitorInterval, "Heartbeat interval")
	flag.BoolVar(&settings.StepDebug, "step", settings.StepDebug, "Step through the simulation cycle by cycle")
	flag.StringVar(&settings.MetricsAddr, "metrics", settings.MetricsAddr, "Serve Prometheus metrics on this address")
	flag.BoolVar(&settings.PrintDebug, "debug", settings.PrintDebug, "Print extra debug info")
	flag.StringVar(&settings.LogFile, "log", settings.LogFile, "Write the internal log to this file on exit")
	flag.Parse()
}

func main() {
	fmt.Printf("* CSYNC generator v%s\n", settings.Version)
	parseCommandLineParameters()

	err := run()
	if err != nil {
		logger.Logf("csync error", "%s", err)
		color.Red("* Halted: %s", err)
		if !settings.PrintDebug { // Already echoed otherwise
			fmt.Fprintln(os.Stderr, "* Last log entries:")
			logger.Tail(os.Stderr, 8)
		}
	}

	if settings.LogFile != "" {
		if werr := writeLog(settings.LogFile); werr != nil {
			color.Red("* %s", werr)
		}
	}

	if err != nil {
		syscall.Exit(1)
	}
}

func writeLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating log '%s'", filename)
	}
	defer f.Close()
	logger.Write(f)
	return nil
}

func loadConfig() (reader.FileConfig, error) {
	if settings.ConfigFile == "" {
		return reader.DefaultFileConfig(), nil
	}
	fmt.Printf("* Reading config '%s'\n", settings.ConfigFile)
	return reader.ReadConfig(settings.ConfigFile)
}

func newStimulus(cfg csync.Config, v sim.Vertical, clockHz uint32) (sim.Stimulus, func(), error) {
	if settings.InputWav == "" {
		timing := cfg.Timing
		timing.SystemClockHz = clockHz
		s, err := sim.NewSynthetic(timing, cfg.Polarity, v)
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("* Synthetic stimulus: %d frames of %d lines, %d cycles\n",
			v.Frames, v.LinesPerFrame, s.TotalCycles)
		return s, func() {}, nil
	}

	f, stream, format, err := reader.ReadWAV(settings.InputWav)
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("* Stimulus '%s' (%d Hz, %d cycles per sample)\n",
		settings.InputWav, format.SampleRate, settings.CyclesPerSample)
	return sim.NewWAVStimulus(stream, settings.CyclesPerSample), func() { f.Close() }, nil
}

func run() error {
	if settings.PrintDebug {
		logger.SetEcho(os.Stdout)
	}

	fc, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := fc.CSync

	fmt.Printf("* HSYNC=GPIO%d VSYNC=GPIO%d CSYNC=GPIO%d  %s\n",
		cfg.Pins.HSync, cfg.Pins.VSync, cfg.Pins.CSync, cfg.Polarity)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A clock in the config file is the clock the simulated block runs at
	clockHz := settings.SystemClockHz
	if cfg.Timing.SystemClockHz != 0 {
		clockHz = cfg.Timing.SystemClockHz
	}
	block := pio.NewBlock(0, clockHz, settings.NumGPIOs)
	h, value, err := csync.Commission(ctx, block, cfg)
	if err != nil {
		return errors.Wrap(err, "commissioning")
	}

	timing := cfg.Timing
	timing.SystemClockHz = block.SystemClockHz()
	fmt.Printf("* %s (%s pixel clock, %.2f us)\n", timing, utils.FormatHz(timing.PixelClockHz),
		utils.CyclesToMicroseconds(timing.RawTimeConstant(), timing.SystemClockHz))

	var words []uint16
	for i := 0; i < h.Length; i++ {
		words = append(words, block.InstructionAt(h.Origin+uint8(i)))
	}
	opCodes := pio.DecodeOpCodes(words)
	listing := disasm.Listing{
		Name:          "csync",
		Origin:        h.Origin,
		WrapTarget:    h.WrapTarget - h.Origin,
		Wrap:          h.Wrap - h.Origin,
		SidesetCount:  block.ConfigOf(h.Unit).SidesetCount,
		ShowParamData: settings.PrintDebug,
	}
	if settings.PrintCode {
		disasm.PrintCodeListing(opCodes, listing)
	}

	stimulus, closeStimulus, err := newStimulus(cfg, fc.Simulation, block.SystemClockHz())
	if err != nil {
		return err
	}
	defer closeStimulus()

	runner := &sim.Runner{
		Block:    block,
		Handle:   h,
		Pins:     cfg.Pins,
		Stimulus: stimulus,
		Capture:  sim.NewCapture(settings.CyclesPerSample),
	}
	if settings.StepDebug {
		runner.Debugger = sim.NewDebugger()
		settings.Dashboard = false
	}

	poll := func() monitor.Snapshot {
		return monitor.Snapshot{
			Status:       csync.Poll(block, h, cfg.Pins),
			Cycles:       runner.Cycles(),
			TimeConstant: value,
		}
	}

	var views []monitor.View
	var dashboard *monitor.Dashboard
	if settings.Dashboard {
		if monitor.Interactive(os.Stdout) {
			dashboard = monitor.NewDashboard(opCodes, listing)
			if err := dashboard.Init(); err != nil {
				return err
			}
			views = append(views, dashboard)
		} else {
			color.Yellow("* Not a terminal, using the plain heartbeat")
			settings.Monitor = true
		}
	}
	if settings.Monitor {
		views = append(views, monitor.NewConsole(os.Stdout))
	}

	registry := prometheus.NewRegistry()
	if settings.MetricsAddr != "" {
		m, err := monitor.NewMetrics(registry)
		if err != nil {
			return err
		}
		views = append(views, m)
		fmt.Printf("* Metrics on http://%s/metrics\n", settings.MetricsAddr)
	}

	g, gctx := errgroup.WithContext(ctx)
	monitorCtx, stopMonitor := context.WithCancel(gctx)
	defer stopMonitor()

	g.Go(func() error {
		defer stopMonitor()
		return runner.Run(gctx)
	})
	if len(views) > 0 {
		g.Go(func() error {
			return monitor.Run(monitorCtx, settings.MonitorInterval, poll, views...)
		})
	}
	if settings.MetricsAddr != "" {
		g.Go(func() error {
			return monitor.Serve(monitorCtx, settings.MetricsAddr, registry)
		})
	}
	if dashboard != nil {
		g.Go(func() error {
			dashboard.HandleEvents(monitorCtx, cancel)
			return nil
		})
	}

	err = g.Wait()
	switch {
	case err == nil:
	case errors.Is(err, sim.ErrQuit), errors.Is(err, context.Canceled):
		color.Yellow("* Stopped after %d cycles", runner.Cycles())
	default:
		return err
	}

	report(runner.Capture, cfg.Polarity, value)

	if len(runner.Capture.Samples) > 0 {
		err := writer.SaveAsWAV(settings.OutputWav, writer.CaptureFormat(settings.SampleRate),
			runner.Capture.Stereo())
		if err != nil {
			return err
		}
	}

	if settings.PrintDebug {
		fmt.Printf("* PIO%d clocked %d cycles\n", block.Index, block.Cycles())
		block.StateOf(h.Unit).DebugFlags.Print()
	}
	return csync.Unload(block, h)
}

// Counts short (HSYNC) and broad (VSYNC) CSYNC pulses
func report(c *sim.Capture, pol csync.PolarityConfig, timeConstant uint32) {
	pulses := sim.Pulses(c.CSync(), pol.InvertOutput)
	broad := 0
	for _, p := range pulses {
		if uint64(p.Length)*uint64(c.CyclesPerSample) >= uint64(timeConstant) {
			broad++
		}
	}
	fmt.Printf("* %d cycles simulated, %d CSYNC pulses (%d broad)\n",
		c.Cycles(), len(pulses), broad)
}
