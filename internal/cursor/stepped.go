package cursor

import (
	"github.com/yourusername/displayhop/internal/types"
)

// SplitDelta divides a pixel delta into at most maxSteps equal integer moves
// followed by one remainder move, so the moves always sum to delta exactly.
// The remainder move is always present, even when it is (0, 0). A zero delta
// produces no moves.
func SplitDelta(delta types.Delta, maxSteps, minPxPerStep int) []types.Delta {
	if delta.IsZero() {
		return nil
	}
	if minPxPerStep < 1 {
		minPxPerStep = 1
	}

	idealSteps := max(abs(delta.DX), abs(delta.DY)) / minPxPerStep
	steps := max(1, min(maxSteps, idealSteps))

	step := types.Delta{DX: delta.DX / steps, DY: delta.DY / steps}
	moves := make([]types.Delta, 0, steps+1)
	for i := 0; i < steps; i++ {
		moves = append(moves, step)
	}
	moves = append(moves, types.Delta{
		DX: delta.DX - step.DX*steps,
		DY: delta.DY - step.DY*steps,
	})
	return moves
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
