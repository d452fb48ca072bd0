package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anyproto/remo-tui/pkg/model"
)

func runeKey(r rune) tea.Key {
	return tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}
}

// fakeScreen records every frame drawn
type fakeScreen struct {
	mu     sync.Mutex
	width  int
	height int
	frames []string
}

func (s *fakeScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *fakeScreen) Draw(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeScreen) draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// scriptedKeys returns its keys one per Poll, then io.EOF
type scriptedKeys struct {
	mu   sync.Mutex
	keys []tea.Key
}

func (s *scriptedKeys) Poll(time.Duration) (tea.Key, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return tea.Key{}, false, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, true, nil
}

// blockingKeys delivers keys sent on ch and otherwise waits out the timeout
type blockingKeys struct {
	ch chan tea.Key
}

func (b *blockingKeys) Poll(timeout time.Duration) (tea.Key, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-b.ch:
		return k, true, nil
	case <-timer.C:
		return tea.Key{}, false, nil
	}
}

// fakeTerminal counts setup and teardown calls
type fakeTerminal struct {
	fakeScreen
	input KeySource

	failRaw   bool
	raws      int
	alts      int
	closes    int
	restores  int
	inputErr  error
	closeMu   sync.Mutex
	rawActive bool
}

func (t *fakeTerminal) EnableRawMode() error {
	if t.failRaw {
		return errors.New("not a terminal")
	}
	t.raws++
	t.rawActive = true
	return nil
}

func (t *fakeTerminal) EnterAltScreen() error {
	t.alts++
	return nil
}

func (t *fakeTerminal) Input() (KeySource, error) {
	if t.inputErr != nil {
		return nil, t.inputErr
	}
	return t.input, nil
}

func (t *fakeTerminal) Close() error {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	t.closes++
	if t.rawActive {
		t.restores++
		t.rawActive = false
	}
	return nil
}

// fakeSource serves a fixed list or error
type fakeSource struct {
	appliances []model.Appliance
	err        error
	calls      int
}

func (f *fakeSource) Name() string {
	return "fake"
}

func (f *fakeSource) FetchAppliances(ctx context.Context) ([]model.Appliance, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.appliances, nil
}

func testAppliances(names ...string) []model.Appliance {
	apps := make([]model.Appliance, len(names))
	for i, name := range names {
		apps[i] = model.Appliance{
			ID:       name + "-id",
			Nickname: name,
			Type:     model.ApplianceAircon,
		}
	}
	return apps
}
