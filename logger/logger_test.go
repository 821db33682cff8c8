package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func Test_Logger(t *testing.T) {
	Clear()
	defer Clear()

	buf := &bytes.Buffer{}
	Write(buf)
	if buf.String() != "" {
		t.Errorf("Empty log wrote '%s'", buf.String())
	}

	Log("test", "this is a test")
	Write(buf)
	if buf.String() != "test: this is a test\n" {
		t.Errorf("Unexpected log contents '%s'", buf.String())
	}

	buf.Reset()
	Logf("test2", "value %d", 42)
	Write(buf)
	if buf.String() != "test: this is a test\ntest2: value 42\n" {
		t.Errorf("Unexpected log contents '%s'", buf.String())
	}

	t.Run("Tail", func(t *testing.T) {
		for n, expected := range map[int]string{
			100: "test: this is a test\ntest2: value 42\n",
			2:   "test: this is a test\ntest2: value 42\n",
			1:   "test2: value 42\n",
			0:   "",
			-1:  "",
		} {
			buf := &bytes.Buffer{}
			Tail(buf, n)
			if buf.String() != expected {
				t.Errorf("Tail(%d) = '%s', expected '%s'", n, buf.String(), expected)
			}
		}
	})

	t.Run("Repeats are folded", func(t *testing.T) {
		Log("test2", "value 42")
		Log("test2", "value 42")
		buf := &bytes.Buffer{}
		Tail(buf, 1)
		if buf.String() != "test2: value 42 (repeat x3)\n" {
			t.Errorf("Unexpected tail '%s'", buf.String())
		}
		if n := len(Entries()); n != 2 {
			t.Errorf("Repeated entries were not folded. %d entries", n)
		}
	})

	t.Run("Newlines are stripped", func(t *testing.T) {
		Log("te\nst", "multi\nline")
		e := Entries()
		last := e[len(e)-1]
		if last.Tag != "test" || last.Detail != "multiline" {
			t.Errorf("Newlines not stripped: %q %q", last.Tag, last.Detail)
		}
	})
}

func Test_Echo(t *testing.T) {
	Clear()
	defer Clear()

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	buf := &bytes.Buffer{}
	SetEcho(buf)
	Log("loader", "pio0 sm0")
	Log("csync error", "no free state machine")
	SetEcho(nil)
	Log("loader", "not echoed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 echoed lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "loader: pio0 sm0" {
		t.Errorf("Unexpected echo '%s'", lines[0])
	}
	if lines[1] != "csync error: no free state machine" {
		t.Errorf("Unexpected echo '%s'", lines[1])
	}
}

func Test_MaxEntries(t *testing.T) {
	l := newLogger(3)
	for _, d := range []string{"a", "b", "c", "d", "e"} {
		l.log("t", d)
	}
	e := l.copy()
	if len(e) != 3 || e[0].Detail != "c" || e[2].Detail != "e" {
		t.Errorf("Bounded history broken: %v", e)
	}
}
