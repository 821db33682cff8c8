package sim

// Sample is what the pins looked like at the end of one cycle
type Sample struct {
	HSync bool
	VSync bool
	CSync bool
}

// Capture keeps every CyclesPerSample'th sample
type Capture struct {
	CyclesPerSample int
	Samples         []Sample
	cycles          uint64
}

func NewCapture(cyclesPerSample int) *Capture {
	return &Capture{CyclesPerSample: max(cyclesPerSample, 1)}
}

func (c *Capture) Record(s Sample) {
	if c.cycles%uint64(c.CyclesPerSample) == 0 {
		c.Samples = append(c.Samples, s)
	}
	c.cycles++
}

// Number of cycles seen by Record()
func (c *Capture) Cycles() uint64 {
	return c.cycles
}

func (c *Capture) CSync() []bool {
	ret := make([]bool, len(c.Samples))
	for i, s := range c.Samples {
		ret[i] = s.CSync
	}
	return ret
}

func level(b bool, amplitude float64) float64 {
	if b {
		return amplitude
	}
	return -amplitude
}

// Stereo converts the capture to WAV frames: CSYNC on the left channel,
// HSYNC (+-0.5) plus VSYNC (+-0.25) on the right.
func (c *Capture) Stereo() [][2]float64 {
	ret := make([][2]float64, len(c.Samples))
	for i, s := range c.Samples {
		ret[i][0] = level(s.CSync, 1.0)
		ret[i][1] = level(s.HSync, 0.5) + level(s.VSync, 0.25)
	}
	return ret
}

// Pulse is a run of samples at the active level
type Pulse struct {
	Start  int // Sample index
	Length int // In samples
}

// Pulses returns the runs where 'levels' equals 'active'. A run still
// open at the end of the capture is dropped, as is one already open at
// the start.
func Pulses(levels []bool, active bool) []Pulse {
	var ret []Pulse
	start := -1
	for i, l := range levels {
		switch {
		case l == active && start < 0 && i > 0 && levels[i-1] != active:
			start = i
		case l != active && start >= 0:
			ret = append(ret, Pulse{Start: start, Length: i - start})
			start = -1
		}
	}
	return ret
}
