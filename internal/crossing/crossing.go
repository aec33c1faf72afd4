// Package crossing computes where and how to move a cursor so it crosses the
// shared boundary of two adjacent displays.
package crossing

import (
	"errors"
	"fmt"
	"math"

	"github.com/yourusername/displayhop/internal/types"
)

// DefaultOffsetDp is the nudge past the boundary, in DP. Large enough to
// register on the neighbor after PX rounding, small enough not to skip past a
// narrow neighbor.
const DefaultOffsetDp = 5.0

// ErrNotAdjacent is returned by CheckAdjacent when two rects do not share a
// boundary segment on the given side
var ErrNotAdjacent = errors.New("displays are not adjacent")

// Detail describes how to cross from one display into its neighbor.
//
//	+-------------------------------+
//	|           Display 2           |
//	|                               |
//	+=========*****X*****===========+
//	          R    |    R   bottom of 2 / top of 1
//	           +-------+
//	           |Display|
//	           |   1   |
//	           +-------+
//
// R is the overlap range of the two edges and X its center (Target). Once the
// cursor sits on Target, moving by Nudge lands it on the neighbor.
type Detail struct {
	Target types.Point  `json:"target"`
	Nudge  types.DeltaF `json:"nudge"`
}

// Calculate returns the boundary midpoint and nudge for crossing from source
// into target, where side is the edge of source that target touches.
//
// Callers must only pass genuinely adjacent rects; no overlap check is made
// here (see CheckAdjacent). An invalid side panics.
func Calculate(source, target types.Rect, side types.Side, offset float64) Detail {
	overlapTop := math.Max(source.Top, target.Top)
	overlapBottom := math.Min(source.Bottom, target.Bottom)
	overlapLeft := math.Max(source.Left, target.Left)
	overlapRight := math.Min(source.Right, target.Right)

	switch side {
	case types.SideRight:
		return Detail{
			Target: types.Point{X: source.Right, Y: (overlapTop + overlapBottom) / 2},
			Nudge:  types.DeltaF{DX: offset},
		}
	case types.SideLeft:
		return Detail{
			Target: types.Point{X: source.Left, Y: (overlapTop + overlapBottom) / 2},
			Nudge:  types.DeltaF{DX: -offset},
		}
	case types.SideBottom:
		return Detail{
			Target: types.Point{X: (overlapLeft + overlapRight) / 2, Y: source.Bottom},
			Nudge:  types.DeltaF{DY: offset},
		}
	case types.SideTop:
		return Detail{
			Target: types.Point{X: (overlapLeft + overlapRight) / 2, Y: source.Top},
			Nudge:  types.DeltaF{DY: -offset},
		}
	default:
		panic(fmt.Sprintf("crossing: invalid side %d", int(side)))
	}
}

// CheckAdjacent verifies that target overlaps source along the edge named by
// side, which Calculate assumes without checking.
func CheckAdjacent(source, target types.Rect, side types.Side) error {
	var lo, hi float64
	switch side {
	case types.SideLeft, types.SideRight:
		lo, hi = math.Max(source.Top, target.Top), math.Min(source.Bottom, target.Bottom)
	case types.SideTop, types.SideBottom:
		lo, hi = math.Max(source.Left, target.Left), math.Min(source.Right, target.Right)
	default:
		return fmt.Errorf("invalid side %d", int(side))
	}
	if hi <= lo {
		return fmt.Errorf("%w: %s and %s share no %s edge", ErrNotAdjacent, source, target, side)
	}
	return nil
}
