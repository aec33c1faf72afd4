package cursor

import (
	"errors"
	"fmt"

	"github.com/yourusername/displayhop/internal/types"
)

var (
	// ErrNoCursorFound is returned when no display reports a cursor
	ErrNoCursorFound = errors.New("cursor doesn't exist on any display")
	// ErrCrossingTimeout is returned when the cursor never showed up on the next display
	ErrCrossingTimeout = errors.New("cursor did not reach the expected display")
	// ErrFinalPositionTolerance is returned in strict mode when the cursor settles too far from the target
	ErrFinalPositionTolerance = errors.New("cursor position outside tolerance")
	// ErrUnknownDisplay is returned when a display on the path is missing from the topology
	ErrUnknownDisplay = errors.New("display not in topology")
	// ErrButtonsUnsupported is returned by drag operations on devices without buttons
	ErrButtonsUnsupported = errors.New("device does not support mouse buttons")
)

// CrossingError describes a failed hop between two displays
type CrossingError struct {
	From types.DisplayID
	To   types.DisplayID
	Side types.Side
	Err  error
}

func (e *CrossingError) Error() string {
	return fmt.Sprintf("crossing %s from display %d to display %d: %v", e.Side, e.From, e.To, e.Err)
}

func (e *CrossingError) Unwrap() error {
	return e.Err
}
