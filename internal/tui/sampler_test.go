package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type clockStep struct {
	advance time.Duration
	key     *tea.Key
}

// clockedKeys advances a fake clock on every Poll
type clockedKeys struct {
	now      time.Time
	steps    []clockStep
	timeouts []time.Duration
}

func (c *clockedKeys) clock() time.Time {
	return c.now
}

func (c *clockedKeys) Poll(timeout time.Duration) (tea.Key, bool, error) {
	c.timeouts = append(c.timeouts, timeout)
	if len(c.steps) == 0 {
		return tea.Key{}, false, io.EOF
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	c.now = c.now.Add(step.advance)
	if step.key == nil {
		return tea.Key{}, false, nil
	}
	return *step.key, true, nil
}

func describe(msg Message) string {
	switch m := msg.(type) {
	case KeyMessage:
		return m.Key.String()
	case TickMessage:
		return "tick"
	}
	return "?"
}

func TestSamplerOrdering(t *testing.T) {
	a, b := runeKey('a'), runeKey('b')
	src := &clockedKeys{
		now: time.Unix(0, 0),
		steps: []clockStep{
			{advance: 10 * time.Millisecond, key: &a},
			{advance: 90 * time.Millisecond},
			{advance: 20 * time.Millisecond, key: &b},
			{advance: 80 * time.Millisecond},
		},
	}

	s := NewSampler(src, 100*time.Millisecond, nil)
	s.now = src.clock

	out := make(chan Message, 10)
	s.Run(context.Background(), out)

	var got []string
	for msg := range out {
		got = append(got, describe(msg))
	}

	want := []string{"a", "tick", "b", "tick"}
	if len(got) != len(want) {
		t.Fatalf("messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}

	// The poll timeout is whatever remains of the current tick
	wantTimeouts := []time.Duration{
		100 * time.Millisecond,
		90 * time.Millisecond,
		100 * time.Millisecond,
		80 * time.Millisecond,
	}
	for i, want := range wantTimeouts {
		if src.timeouts[i] != want {
			t.Errorf("timeout %d = %v, want %v", i, src.timeouts[i], want)
		}
	}
}

func TestSamplerKeyBurst(t *testing.T) {
	src := &scriptedKeys{keys: []tea.Key{runeKey('j'), runeKey('j'), runeKey('q')}}
	s := NewSampler(src, time.Hour, nil)

	out := make(chan Message, 10)
	s.Run(context.Background(), out)

	var got []string
	for msg := range out {
		got = append(got, describe(msg))
	}
	if len(got) != 3 || got[0] != "j" || got[1] != "j" || got[2] != "q" {
		t.Errorf("messages = %v, want [j j q]", got)
	}
}

func TestSamplerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSampler(&blockingKeys{ch: make(chan tea.Key)}, 5*time.Millisecond, nil)

	// Unbuffered and never read: the sampler blocks on its first tick
	out := make(chan Message)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, out)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampler did not stop after cancel")
	}

	if _, ok := <-out; ok {
		t.Error("output channel should be closed")
	}
}

func TestSamplerTicksWithoutInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSampler(&blockingKeys{ch: make(chan tea.Key)}, 5*time.Millisecond, nil)
	out := make(chan Message)
	go s.Run(ctx, out)

	for i := 0; i < 3; i++ {
		select {
		case msg := <-out:
			if _, ok := msg.(TickMessage); !ok {
				t.Fatalf("message %d = %T, want TickMessage", i, msg)
			}
		case <-time.After(time.Second):
			t.Fatal("no tick received")
		}
	}
}
