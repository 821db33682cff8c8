package sim

import (
	"github.com/faiface/beep"
	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/csync"
)

// Levels of the two sync inputs during one system clock cycle
type Levels struct {
	HSync bool
	VSync bool
}

// Stimulus drives the sync inputs. Next() is called once per system
// clock cycle and returns false when there is nothing more.
type Stimulus interface {
	Next() (Levels, bool)
}

// Vertical timing for the synthetic stimulus
type Vertical struct {
	LinesPerFrame int `yaml:"lines_per_frame"`
	VSyncLines    int `yaml:"vsync_lines"`
	Frames        int `yaml:"frames"`
}

// Synthetic generates HSYNC and VSYNC from the horizontal timing. VSYNC
// covers the first VSyncLines lines of each frame.
type Synthetic struct {
	LineCycles  uint64
	HSyncStart  uint64 // Cycle inside the line
	HSyncEnd    uint64
	VSyncStart  uint64 // Cycle inside the frame
	VSyncEnd    uint64
	TotalCycles uint64
	Polarity    csync.PolarityConfig

	vertical Vertical
	cycle    uint64
}

// Scales pixels to system clock cycles
func toCycles(pixels uint16, t csync.TimingParams) uint64 {
	return uint64(pixels) * uint64(t.SystemClockHz) / uint64(t.PixelClockHz)
}

func NewSynthetic(t csync.TimingParams, pol csync.PolarityConfig, v Vertical) (*Synthetic, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if v.LinesPerFrame <= 0 || v.Frames <= 0 {
		return nil, errors.Errorf("need at least one line and one frame (%d lines, %d frames)",
			v.LinesPerFrame, v.Frames)
	}
	if v.VSyncLines < 0 || v.VSyncLines >= v.LinesPerFrame {
		return nil, errors.Errorf("%d VSYNC lines in a %d line frame", v.VSyncLines, v.LinesPerFrame)
	}

	s := &Synthetic{
		LineCycles: toCycles(t.HTotal, t),
		HSyncStart: toCycles(t.HSyncStart, t),
		HSyncEnd:   toCycles(t.HSyncEnd, t),
		Polarity:   pol,
		vertical:   v,
	}
	s.VSyncStart = 0
	s.VSyncEnd = uint64(v.VSyncLines) * s.LineCycles
	s.TotalCycles = s.LineCycles * uint64(v.LinesPerFrame) * uint64(v.Frames)
	return s, nil
}

func (s *Synthetic) Next() (Levels, bool) {
	if s.cycle >= s.TotalCycles {
		return Levels{}, false
	}
	inLine := s.cycle % s.LineCycles
	inFrame := s.cycle % (s.LineCycles * uint64(s.vertical.LinesPerFrame))
	s.cycle++

	hsync := inLine >= s.HSyncStart && inLine < s.HSyncEnd
	vsync := inFrame >= s.VSyncStart && inFrame < s.VSyncEnd
	return Levels{
		HSync: hsync != s.Polarity.HSyncActiveLow,
		VSync: vsync != s.Polarity.VSyncActiveLow,
	}, true
}

// WAVStimulus reads HSYNC from the left channel and VSYNC from the right.
// Samples above 0 are high. Every sample is held for CyclesPerSample
// cycles.
type WAVStimulus struct {
	stream          beep.Streamer
	cyclesPerSample int
	buffer          [][2]float64
	pos             int
	n               int
	held            int
	current         Levels
	done            bool
}

func NewWAVStimulus(stream beep.Streamer, cyclesPerSample int) *WAVStimulus {
	return &WAVStimulus{
		stream:          stream,
		cyclesPerSample: max(cyclesPerSample, 1),
		buffer:          make([][2]float64, 512),
	}
}

func (w *WAVStimulus) Next() (Levels, bool) {
	if w.held > 0 {
		w.held--
		return w.current, true
	}
	if w.done {
		return Levels{}, false
	}

	if w.pos >= w.n {
		n, ok := w.stream.Stream(w.buffer)
		if !ok || n == 0 {
			w.done = true
			return Levels{}, false
		}
		w.n = n
		w.pos = 0
	}

	sample := w.buffer[w.pos]
	w.pos++
	w.current = Levels{HSync: sample[0] > 0, VSync: sample[1] > 0}
	w.held = w.cyclesPerSample - 1
	return w.current, true
}

// Err reports a decoding error from the underlying stream
func (w *WAVStimulus) Err() error {
	return w.stream.Err()
}
