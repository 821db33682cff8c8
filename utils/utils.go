package utils

import (
	"fmt"
	"os"
	"runtime"
)

// Assert panics with the caller's position when 'cond' is false
func Assert(cond bool, msg string) {
	if cond {
		return
	}
	_, file, no, ok := runtime.Caller(1)
	if ok {
		msg = fmt.Sprintf("%s (%s:%d)", msg, file, no)
	}
	fmt.Fprintf(os.Stderr, "ASSERT: %s\n", msg)
	panic(msg)
}

func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Level as "HIGH" or "LOW"
func Level(b bool) string {
	if b {
		return "HIGH"
	}
	return "LOW"
}

// FormatHz prints a frequency with a unit prefix: 8056000 -> "8.056 MHz"
func FormatHz(hz uint32) string {
	switch {
	case hz >= 1000000:
		return fmt.Sprintf("%g MHz", float64(hz)/1e6)
	case hz >= 1000:
		return fmt.Sprintf("%g kHz", float64(hz)/1e3)
	}
	return fmt.Sprintf("%d Hz", hz)
}

// CyclesToMicroseconds converts system clock cycles to time
func CyclesToMicroseconds(cycles uint64, clockHz uint32) float64 {
	if clockHz == 0 {
		return 0
	}
	return float64(cycles) * 1e6 / float64(clockHz)
}
