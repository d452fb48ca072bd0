package tui

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
)

// ttyInput decodes raw terminal bytes into keys on a reader goroutine
type ttyInput struct {
	reader cancelreader.CancelReader
	keys   chan tea.Key
	errs   chan error
	done   chan struct{}
	once   sync.Once
}

func newTTYInput(r io.Reader) (*ttyInput, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}

	in := &ttyInput{
		reader: cr,
		keys:   make(chan tea.Key, 64),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go in.readLoop()
	return in, nil
}

func (in *ttyInput) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := in.reader.Read(buf)
		for _, k := range parseKeys(buf[:n]) {
			select {
			case in.keys <- k:
			case <-in.done:
				return
			}
		}
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				err = io.EOF
			}
			in.errs <- err
			return
		}
	}
}

// Poll implements KeySource
func (in *ttyInput) Poll(timeout time.Duration) (tea.Key, bool, error) {
	select {
	case k := <-in.keys:
		return k, true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case k := <-in.keys:
		return k, true, nil
	case err := <-in.errs:
		return tea.Key{}, false, err
	case <-in.done:
		return tea.Key{}, false, io.EOF
	case <-timer.C:
		return tea.Key{}, false, nil
	}
}

// Close stops the reader goroutine
func (in *ttyInput) Close() error {
	in.once.Do(func() {
		in.reader.Cancel()
		close(in.done)
	})
	return nil
}

var csiKeys = map[byte]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
	'Z': tea.KeyShiftTab,
}

var tildeKeys = map[string]tea.KeyType{
	"1": tea.KeyHome,
	"2": tea.KeyInsert,
	"3": tea.KeyDelete,
	"4": tea.KeyEnd,
	"5": tea.KeyPgUp,
	"6": tea.KeyPgDown,
	"7": tea.KeyHome,
	"8": tea.KeyEnd,
}

// parseKeys decodes one read worth of terminal input. Mouse reports and
// unknown sequences are dropped.
func parseKeys(b []byte) []tea.Key {
	var keys []tea.Key
	for len(b) > 0 {
		switch c := b[0]; {
		case c == 0x1b:
			k, n, ok := parseEscape(b)
			if ok {
				keys = append(keys, k)
			}
			b = b[n:]

		case c == '\r' || c == '\n':
			keys = append(keys, tea.Key{Type: tea.KeyEnter})
			b = b[1:]

		case c == 0x7f || c == 0x08:
			keys = append(keys, tea.Key{Type: tea.KeyBackspace})
			b = b[1:]

		case c == ' ':
			keys = append(keys, tea.Key{Type: tea.KeySpace, Runes: []rune{' '}})
			b = b[1:]

		case c < 0x20:
			// control bytes share their value with bubbletea's ctrl key types
			keys = append(keys, tea.Key{Type: tea.KeyType(c)})
			b = b[1:]

		default:
			r, n := utf8.DecodeRune(b)
			if r != utf8.RuneError {
				keys = append(keys, tea.Key{Type: tea.KeyRunes, Runes: []rune{r}})
			}
			b = b[n:]
		}
	}
	return keys
}

// parseEscape decodes a sequence starting with ESC. It returns the key,
// the number of bytes consumed and whether the sequence produced a key.
func parseEscape(b []byte) (tea.Key, int, bool) {
	if len(b) == 1 {
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}

	switch b[1] {
	case '[':
		return parseCSI(b)
	case 'O':
		if len(b) < 3 {
			return tea.Key{}, len(b), false
		}
		if t, ok := csiKeys[b[2]]; ok {
			return tea.Key{Type: t}, 3, true
		}
		return tea.Key{}, 3, false
	case 0x1b:
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}

	// ESC followed by a printable rune is alt+rune
	r, n := utf8.DecodeRune(b[1:])
	if r == utf8.RuneError || r < 0x20 {
		return tea.Key{Type: tea.KeyEsc}, 1, true
	}
	return tea.Key{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}, 1 + n, true
}

func parseCSI(b []byte) (tea.Key, int, bool) {
	if len(b) < 3 {
		return tea.Key{}, len(b), false
	}

	switch b[2] {
	case '<':
		// SGR mouse report: ESC [ < params (M|m)
		for i := 3; i < len(b); i++ {
			if b[i] == 'M' || b[i] == 'm' {
				return tea.Key{}, i + 1, false
			}
		}
		return tea.Key{}, len(b), false
	case 'M':
		// X10 mouse report: ESC [ M plus three bytes
		n := 6
		if n > len(b) {
			n = len(b)
		}
		return tea.Key{}, n, false
	}

	i := 2
	for i < len(b) && b[i] >= 0x30 && b[i] <= 0x3f {
		i++
	}
	if i >= len(b) {
		return tea.Key{}, len(b), false
	}

	params, final := string(b[2:i]), b[i]
	n := i + 1

	if final == '~' {
		if j := strings.IndexByte(params, ';'); j >= 0 {
			params = params[:j]
		}
		if t, ok := tildeKeys[params]; ok {
			return tea.Key{Type: t}, n, true
		}
		return tea.Key{}, n, false
	}

	if t, ok := csiKeys[final]; ok {
		// modifier 3 in "1;3A" marks alt
		alt := len(params) > 2 && params[len(params)-1] == '3'
		return tea.Key{Type: t, Alt: alt}, n, true
	}
	return tea.Key{}, n, false
}
