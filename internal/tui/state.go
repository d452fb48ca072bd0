package tui

import (
	"fmt"

	"github.com/anyproto/remo-tui/pkg/model"
)

// ViewID identifies a screen
type ViewID int

const (
	ViewMaster ViewID = iota
	// ViewDetail is reserved for a per-appliance screen and has no view yet
	ViewDetail
)

func (v ViewID) String() string {
	switch v {
	case ViewMaster:
		return "master"
	case ViewDetail:
		return "detail"
	default:
		return fmt.Sprintf("ViewID(%d)", v)
	}
}

// State is the application state shared by all views. The loop owns it;
// views only see it for the duration of a Render or Handle call.
type State struct {
	// Appliances is fetched once at startup and never replaced
	Appliances []model.Appliance
	// Active is the screen the loop renders and dispatches to
	Active ViewID
}

// NewState creates the startup state showing the master view
func NewState(appliances []model.Appliance) *State {
	return &State{
		Appliances: appliances,
		Active:     ViewMaster,
	}
}
