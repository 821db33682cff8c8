package utils

import (
	"math"
	"testing"
)

func Test_FormatHz(t *testing.T) {
	tests := map[uint32]string{
		8056000:   "8.056 MHz",
		150000000: "150 MHz",
		32768:     "32.768 kHz",
		999:       "999 Hz",
		0:         "0 Hz",
	}
	for in, expected := range tests {
		if s := FormatHz(in); s != expected {
			t.Errorf("FormatHz(%d) = '%s', expected '%s'", in, s, expected)
		}
	}
}

func Test_CyclesToMicroseconds(t *testing.T) {
	// One 8043 cycle time constant at 150 MHz
	us := CyclesToMicroseconds(8043, 150000000)
	if math.Abs(us-53.62) > 0.001 {
		t.Errorf("8043 cycles @ 150 MHz = %f us, expected 53.62", us)
	}
	if us := CyclesToMicroseconds(100, 0); us != 0 {
		t.Errorf("Zero clock gave %f", us)
	}
}

func Test_Levels(t *testing.T) {
	if BoolToInt(true) != 1 || BoolToInt(false) != 0 {
		t.Errorf("BoolToInt broken")
	}
	if Level(true) != "HIGH" || Level(false) != "LOW" {
		t.Errorf("Level broken")
	}
}

func Test_Assert(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Assert(false) did not panic")
		}
	}()
	Assert(true, "not raised")
	Assert(false, "raised")
}
