package source

import (
	"context"

	"github.com/anyproto/remo-tui/pkg/model"
)

// Source represents a source of appliance lists
type Source interface {
	// Name returns the name of this source (for logging)
	Name() string

	// FetchAppliances returns the current appliance list in API order
	FetchAppliances(ctx context.Context) ([]model.Appliance, error)
}
