// Package cursor moves a mouse cursor to any position on any display of a
// multi-display topology, hopping across adjacent displays one boundary at a
// time.
package cursor

import (
	"context"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// Device is the input backend the mover drives. Positions are device pixels
// local to a display; relative moves are device pixels of the display the
// cursor is currently on.
type Device interface {
	// CursorDisplayID returns the display showing the cursor, false if none
	CursorDisplayID(ctx context.Context) (types.DisplayID, bool, error)
	// CursorPosition returns the cursor position on id, false if the cursor is elsewhere
	CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error)
	// SendRelativeMove injects one relative movement
	SendRelativeMove(ctx context.Context, dx, dy int) error
	// SyncInput returns once previously injected events have been processed
	SyncInput(ctx context.Context) error
	// Topology returns the current display topology snapshot
	Topology(ctx context.Context) (*topology.Graph, error)
}

// ButtonDevice is a Device that can also press and release the primary button
type ButtonDevice interface {
	Device
	PressButton(ctx context.Context) error
	ReleaseButton(ctx context.Context) error
}

// State is the mover's tracked cursor location
type State struct {
	DisplayID types.DisplayID `json:"displayId"`
	Position  types.Pixel     `json:"position"`
}
