// Package tty adapts a terminal for the interpreter's IN instruction: when
// standard input is a real terminal it reads one raw keystroke at a time
// instead of waiting for Enter, the way a teletype-style console would.
package tty

import (
	"bufio"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoTTY is returned by Open when the given file is not a terminal.
var ErrNoTTY = errors.New("tty: not a terminal")

// RawConsole puts a terminal into raw (unbuffered, unechoed) mode for the
// duration of a run, restored by Close.
type RawConsole struct {
	fd    int
	saved *term.State
	in    *bufio.Reader
}

// Open puts f into raw mode and returns a RawConsole reading from it. It
// fails with ErrNoTTY if f is not backed by a real terminal, so callers
// can fall back to a plain byte reader for redirected input.
func Open(f *os.File) (*RawConsole, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawConsole{fd: fd, saved: saved, in: bufio.NewReader(f)}, nil
}

// Reader returns the single-keystroke reader for this console.
func (c *RawConsole) Reader() io.Reader { return c.in }

// Close restores the terminal to its state before Open.
func (c *RawConsole) Close() error {
	return term.Restore(c.fd, c.saved)
}

// InputReader returns a reader suitable for the IN instruction: a raw
// console reader when stdin is a terminal, or stdin itself (already
// buffered by the caller) otherwise.
func InputReader(stdin *os.File) (io.Reader, func() error, error) {
	console, err := Open(stdin)
	if err != nil {
		if errors.Is(err, ErrNoTTY) {
			return stdin, func() error { return nil }, nil
		}
		return nil, nil, err
	}
	return console.Reader(), console.Close, nil
}
