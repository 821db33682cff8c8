package logger

import (
	"io"
)

// Only one log for the whole program
var central *logger

// Maximum number of entries kept by the central log
const maxCentral = 256

func init() {
	central = newLogger(maxCentral)
}

// Log adds an entry to the central log
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log
func Logf(tag, detail string, args ...interface{}) {
	central.logf(tag, detail, args...)
}

// Clear removes all entries
func Clear() {
	central.clear()
}

// Write writes every entry to output
func Write(output io.Writer) {
	central.write(output)
}

// Tail writes the last N entries to output
func Tail(output io.Writer, number int) {
	central.tail(output, number)
}

// SetEcho also prints new entries to output as they arrive. nil turns
// echoing off.
func SetEcho(output io.Writer) {
	central.setEcho(output)
}

// Entries returns a copy of the current entries
func Entries() []Entry {
	return central.copy()
}
