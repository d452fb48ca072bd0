package tui

import tea "github.com/charmbracelet/bubbletea"

// Signal tells the loop whether to keep running after a key
type Signal int

const (
	Continue Signal = iota
	Exit
)

func (s Signal) String() string {
	if s == Exit {
		return "exit"
	}
	return "continue"
}

// View is one screen: how it renders and how it reacts to keys.
// Implementations must not keep the *State past a call.
type View interface {
	// Render projects state onto a width x height frame without modifying state
	Render(state *State, width, height int) string

	// Handle reacts to a key. A returned error is fatal to the loop.
	Handle(k tea.Key, state *State) (Signal, error)
}

// ViewFactory builds a fresh view when its ViewID becomes active
type ViewFactory func(state *State) View

// DefaultViews returns the views the dashboard knows how to show
func DefaultViews() map[ViewID]ViewFactory {
	return map[ViewID]ViewFactory{
		ViewMaster: func(state *State) View {
			return NewMasterView(state)
		},
	}
}
