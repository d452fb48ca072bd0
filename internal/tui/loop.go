package tui

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Phase is the lifecycle state of a Loop
type Phase int

const (
	Running Phase = iota
	Terminating
)

func (p Phase) String() string {
	if p == Terminating {
		return "terminating"
	}
	return "running"
}

// Loop renders the active view and dispatches sampler messages to it
type Loop struct {
	screen Screen
	state  *State
	views  map[ViewID]ViewFactory
	view   View
	active ViewID
	phase  Phase
	logger *zap.Logger
}

// NewLoop creates a loop showing state.Active
func NewLoop(screen Screen, state *State, views map[ViewID]ViewFactory, logger *zap.Logger) (*Loop, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory, ok := views[state.Active]
	if !ok {
		return nil, fmt.Errorf("no view registered for %s", state.Active)
	}
	return &Loop{
		screen: screen,
		state:  state,
		views:  views,
		view:   factory(state),
		active: state.Active,
		phase:  Running,
		logger: logger,
	}, nil
}

// Phase returns the current lifecycle state
func (l *Loop) Phase() Phase {
	return l.phase
}

// Run draws a frame, then blocks for the next message, until the view
// asks to exit, msgs is closed or ctx is cancelled. Nothing is drawn
// after the loop starts terminating.
func (l *Loop) Run(ctx context.Context, msgs <-chan Message) error {
	for l.phase == Running {
		width, height := l.screen.Size()
		if err := l.screen.Draw(l.view.Render(l.state, width, height)); err != nil {
			l.phase = Terminating
			return fmt.Errorf("drawing frame: %w", err)
		}

		var msg Message
		var ok bool
		select {
		case <-ctx.Done():
			l.phase = Terminating
			return nil
		case msg, ok = <-msgs:
		}
		if !ok {
			l.logger.Debug("Message stream closed")
			l.phase = Terminating
			return nil
		}

		if err := l.dispatch(msg); err != nil {
			l.phase = Terminating
			return err
		}
	}
	return nil
}

func (l *Loop) dispatch(msg Message) error {
	switch m := msg.(type) {
	case TickMessage:
		// Ticks only pace redraws

	case KeyMessage:
		signal, err := l.view.Handle(m.Key, l.state)
		if err != nil {
			l.logger.Error("Key handler failed",
				zap.String("view", l.active.String()),
				zap.String("key", m.Key.String()),
				zap.Error(err),
			)
			return fmt.Errorf("handling %q in %s view: %w", m.Key.String(), l.active, err)
		}
		if signal == Exit {
			l.logger.Debug("Exit requested", zap.String("view", l.active.String()))
			l.phase = Terminating
			return nil
		}
		l.switchView()
	}
	return nil
}

// switchView rebuilds the view when a handler changed state.Active.
// An unknown id is reverted so the current view stays on screen.
func (l *Loop) switchView() {
	if l.state.Active == l.active {
		return
	}
	factory, ok := l.views[l.state.Active]
	if !ok {
		l.logger.Warn("No view registered",
			zap.String("view", l.state.Active.String()),
		)
		l.state.Active = l.active
		return
	}
	l.active = l.state.Active
	l.view = factory(l.state)
}
