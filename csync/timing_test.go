package csync

import (
	"testing"

	"github.com/pkg/errors"
)

func Test_ComputeTimeConstant(t *testing.T) {
	p := DefaultConfig().Timing
	p.SystemClockHz = 150000000

	if hsw := p.HSyncWidth(); hsw != 40 {
		t.Errorf("HSyncWidth != 40. Got %d", hsw)
	}
	if lhs := p.LineLessSync(); lhs != 432 {
		t.Errorf("LineLessSync != 432. Got %d", lhs)
	}
	// 432 * 150e6 / 8.056e6 = 8043.69
	if tc := p.RawTimeConstant(); tc != 8043 {
		t.Errorf("RawTimeConstant != 8043. Got %d", tc)
	}
	if v := ComputeTimeConstant(p); v != 8041 {
		t.Errorf("ComputeTimeConstant != 8041. Got %d", v)
	}
	if s := p.String(); s != "clk_sys=150000000 pixel=8056000 htotal=512 hsw=40 lhs=432 tc=8043 push=8041" {
		t.Errorf("Unexpected timing line '%s'", s)
	}

	t.Run("Degenerate", func(t *testing.T) {
		tests := []struct {
			name     string
			p        TimingParams
			expected uint32
		}{
			{"hsync eats the line", TimingParams{PixelClockHz: 1, HTotal: 80, HSyncStart: 0, HSyncEnd: 40, SystemClockHz: 1}, 0},
			{"more than the line", TimingParams{PixelClockHz: 1, HTotal: 10, HSyncStart: 0, HSyncEnd: 8, SystemClockHz: 1}, 0},
			{"tc = 1", TimingParams{PixelClockHz: 1, HTotal: 1, SystemClockHz: 1}, 0},
			{"tc = 2", TimingParams{PixelClockHz: 1, HTotal: 2, SystemClockHz: 1}, 0},
			{"tc = 3", TimingParams{PixelClockHz: 1, HTotal: 3, SystemClockHz: 1}, 1},
			{"no pixel clock", TimingParams{HTotal: 100, SystemClockHz: 1}, 0},
			{"clamped", TimingParams{PixelClockHz: 1, HTotal: 65535, SystemClockHz: 4000000000}, 0xFFFFFFFF},
		}
		for _, test := range tests {
			if v := ComputeTimeConstant(test.p); v != test.expected {
				t.Errorf("%s: got %d, expected %d", test.name, v, test.expected)
			}
		}
	})
}

func Test_ValidateTiming(t *testing.T) {
	good := DefaultConfig().Timing
	good.SystemClockHz = 150000000
	if err := good.Validate(); err != nil {
		t.Fatalf("Default timing rejected: %s", err)
	}

	bad := map[string]func(p *TimingParams){
		"no pixel clock":    func(p *TimingParams) { p.PixelClockHz = 0 },
		"no system clock":   func(p *TimingParams) { p.SystemClockHz = 0 },
		"no line":           func(p *TimingParams) { p.HTotal = 0 },
		"end before start":  func(p *TimingParams) { p.HSyncEnd = p.HSyncStart - 1 },
		"end beyond line":   func(p *TimingParams) { p.HSyncEnd = p.HTotal + 1 },
		"sync too wide":     func(p *TimingParams) { p.HSyncStart = 0; p.HSyncEnd = 300 },
		"constant overflow": func(p *TimingParams) { p.PixelClockHz = 1; p.SystemClockHz = 4000000000 },
	}
	for name, f := range bad {
		p := good
		f(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidTimingParams) {
			t.Errorf("%s: expected ErrInvalidTimingParams, got %v", name, err)
		}
	}
}

func Test_ValidatePins(t *testing.T) {
	tests := []struct {
		pins     PinAssignment
		numGPIOs int
		valid    bool
	}{
		{PinAssignment{HSync: 2, VSync: 3, CSync: 4}, 30, true},
		{PinAssignment{HSync: 0, VSync: 28, CSync: 29}, 30, true},
		{PinAssignment{HSync: 2, VSync: 2, CSync: 4}, 30, false},
		{PinAssignment{HSync: 2, VSync: 3, CSync: 2}, 30, false},
		{PinAssignment{HSync: 2, VSync: 3, CSync: 30}, 30, false},
		{PinAssignment{HSync: 40, VSync: 3, CSync: 4}, 48, false},
		{PinAssignment{HSync: 31, VSync: 3, CSync: 4}, 48, true},
	}
	for _, test := range tests {
		err := test.pins.Validate(test.numGPIOs)
		if test.valid && err != nil {
			t.Errorf("%+v (%d gpios) rejected: %s", test.pins, test.numGPIOs, err)
		}
		if !test.valid && !errors.Is(err, ErrInvalidPinAssignment) {
			t.Errorf("%+v (%d gpios): expected ErrInvalidPinAssignment, got %v", test.pins, test.numGPIOs, err)
		}
	}
}
