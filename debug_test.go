package ds1307

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHexDump(t *testing.T) {
	want := "h -> \n00000000  00 30 15 09                                       |.0..|\n\n <- h"
	got := fmt.Sprintf("h -> %s <- h", hexDump([]byte{0x00, 0x30, 0x15, 0x09}))
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

type recordLogger struct {
	lines []string
}

func (l *recordLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

type halFunc func(w, r []byte) error

func (f halFunc) Tx(w, r []byte) error {
	return f(w, r)
}

func TestHALDebug(t *testing.T) {
	l := &recordLogger{}
	h := &halDebug{"rtc", l, halFunc(func(w, r []byte) error {
		r[0] = 0x42
		return nil
	})}

	r := make([]byte, 1)
	if err := h.Tx([]byte{0x07}, r); err != nil {
		t.Fatal(err)
	}
	if len(l.lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(l.lines), l.lines)
	}
	if want := "  rtc >>  tx send(1) recv(1)"; l.lines[0] != want {
		t.Errorf("got %q, want %q", l.lines[0], want)
	}
	if !strings.Contains(l.lines[3], "42") {
		t.Errorf("response not dumped: %q", l.lines[3])
	}

	l.lines = nil
	busErr := errors.New("nack")
	h.next = halFunc(func(w, r []byte) error { return busErr })
	if err := h.Tx([]byte{0x00}, r); err != busErr {
		t.Errorf("got %v, want %v", err, busErr)
	}
	if want := "  rtc <<  tx nack"; l.lines[len(l.lines)-1] != want {
		t.Errorf("got %q, want %q", l.lines[len(l.lines)-1], want)
	}
}

func TestGetLogger(t *testing.T) {
	if getLogger(IfaceConfig{}) != nullLogger {
		t.Error("expected null logger without debug")
	}
	l := &recordLogger{}
	if getLogger(IfaceConfig{Debug: l}) != l {
		t.Error("expected configured logger")
	}
}
