package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Screen is the drawing surface used by the loop
type Screen interface {
	Size() (width, height int)
	Draw(frame string) error
}

// Terminal is a Screen that also owns terminal modes and input.
// Close undoes whatever setup succeeded and is safe to call repeatedly.
type Terminal interface {
	Screen
	EnableRawMode() error
	EnterAltScreen() error
	Input() (KeySource, error)
	Close() error
}

// TTY is the Terminal backed by the process's controlling terminal
type TTY struct {
	in    io.Reader
	inFd  int
	out   io.Writer
	outFd int
	o     *termenv.Output

	mu        sync.Mutex
	state     *term.State
	raw       bool
	alt       bool
	input     *ttyInput
	lastFrame string
	lastW     int
	lastH     int

	closeOnce sync.Once
	closeErr  error

	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error
	getSize func(fd int) (int, int, error)
}

// NewTTY creates a terminal reading keys from in and drawing on out
func NewTTY(in, out *os.File) *TTY {
	return newTTY(in, int(in.Fd()), out, int(out.Fd()))
}

func newTTY(in io.Reader, inFd int, out io.Writer, outFd int) *TTY {
	return &TTY{
		in:      in,
		inFd:    inFd,
		out:     out,
		outFd:   outFd,
		o:       termenv.NewOutput(out),
		makeRaw: term.MakeRaw,
		restore: term.Restore,
		getSize: term.GetSize,
	}
}

// EnableRawMode switches the input terminal to raw mode
func (t *TTY) EnableRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.makeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("making terminal raw: %w", err)
	}
	t.state = state
	t.raw = true
	return nil
}

// EnterAltScreen switches to the alternate screen, enables mouse
// capture and hides the cursor
func (t *TTY) EnterAltScreen() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.o.AltScreen()
	t.o.EnableMouseCellMotion()
	t.o.EnableMouseExtendedMode()
	t.o.HideCursor()
	t.alt = true
	return nil
}

// Input starts decoding keys from the input terminal
func (t *TTY) Input() (KeySource, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.input != nil {
		return t.input, nil
	}
	in, err := newTTYInput(t.in)
	if err != nil {
		return nil, fmt.Errorf("creating input reader: %w", err)
	}
	t.input = in
	return in, nil
}

// Size returns the current terminal size, falling back to 80x24
func (t *TTY) Size() (int, int) {
	w, h, err := t.getSize(t.outFd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Draw repaints the screen unless frame and size are unchanged
func (t *TTY) Draw(frame string) error {
	w, h := t.Size()

	t.mu.Lock()
	defer t.mu.Unlock()

	if frame == t.lastFrame && w == t.lastW && h == t.lastH {
		return nil
	}
	t.lastFrame, t.lastW, t.lastH = frame, w, h

	t.o.ClearScreen()
	// raw mode disables output post-processing, so newlines need a carriage return
	_, err := io.WriteString(t.out, strings.ReplaceAll(frame, "\n", "\r\n"))
	return err
}

// Close restores the terminal mode, leaves the alternate screen and shows
// the cursor. Only the steps that were set up are undone, exactly once.
func (t *TTY) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.input != nil {
			t.input.Close()
		}
		if t.raw {
			if err := t.restore(t.inFd, t.state); err != nil {
				t.closeErr = fmt.Errorf("restoring terminal: %w", err)
			}
		}
		if t.alt {
			t.o.DisableMouseExtendedMode()
			t.o.DisableMouseCellMotion()
			t.o.ExitAltScreen()
			t.o.ShowCursor()
		}
	})
	return t.closeErr
}

var _ Terminal = (*TTY)(nil)
