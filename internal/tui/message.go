package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Message is delivered from the sampler to the loop. It is either a
// KeyMessage or a TickMessage.
type Message interface {
	message()
}

// KeyMessage carries one decoded key press
type KeyMessage struct {
	Key tea.Key
}

// TickMessage is the periodic heartbeat, sent once per tick rate
type TickMessage struct {
	At time.Time
}

func (KeyMessage) message()  {}
func (TickMessage) message() {}
