package cursor

import (
	"context"
	"fmt"

	"github.com/yourusername/displayhop/internal/types"
)

// StartDrag presses the primary button at the current position
func (m *Mover) StartDrag(ctx context.Context) error {
	bd, ok := m.dev.(ButtonDevice)
	if !ok {
		return ErrButtonsUnsupported
	}
	if err := bd.PressButton(ctx); err != nil {
		return fmt.Errorf("failed to press button: %w", err)
	}
	m.pause()
	return nil
}

// StopDrag releases the primary button
func (m *Mover) StopDrag(ctx context.Context) error {
	bd, ok := m.dev.(ButtonDevice)
	if !ok {
		return ErrButtonsUnsupported
	}
	if err := bd.ReleaseButton(ctx); err != nil {
		return fmt.Errorf("failed to release button: %w", err)
	}
	m.pause()
	return nil
}

// Drag presses the button, moves to (x, y) on the target display and
// releases. The button is released even when the move fails.
func (m *Mover) Drag(ctx context.Context, target types.DisplayID, x, y int) error {
	if err := m.StartDrag(ctx); err != nil {
		return err
	}
	moveErr := m.MoveTo(ctx, target, x, y)
	stopErr := m.StopDrag(ctx)
	if moveErr != nil {
		return moveErr
	}
	return stopErr
}
