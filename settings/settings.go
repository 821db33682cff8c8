package settings

import "time"

var Version = "0.1"

// YAML file with pins, polarities and timing. Empty means built-in defaults.
var ConfigFile = ""

// Optional WAV with HSYNC (left) and VSYNC (right) used as stimulus
var InputWav = ""

// Captured HSYNC, VSYNC and CSYNC levels
var OutputWav = "csync.wav"

// Number of frames to simulate with the synthetic stimulus
var Frames = 2

// Do a code printout
var PrintCode = false

// Print extra debug info
var PrintDebug = false

// Write the whole internal log here on exit. Empty disables it.
var LogFile = ""

// Heartbeat on the console while simulating
var Monitor = false

// termui dashboard instead of the plain heartbeat
var Dashboard = false

// Time between two heartbeats
var MonitorInterval = 250 * time.Millisecond

// Step debugger
var StepDebug = false

// Serve Prometheus metrics on this address (":2112"). Empty disables it.
var MetricsAddr = ""

// Sample rate of the WAV stimulus and capture, in samples per system
// clock cycle. 1 keeps every cycle.
var CyclesPerSample = 1

// Sample rate written to the capture header
var SampleRate = 44100

// RP2350 default clk_sys
var SystemClockHz uint32 = 150000000

// QFN-60 RP2350A
var NumGPIOs = 30

// Size of the PIO instruction memory
var MaxNumberOfOps = 32

// Lines per frame and VSYNC width for the synthetic stimulus
var LinesPerFrame = 16
var VSyncLines = 3
