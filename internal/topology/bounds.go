package topology

import (
	"math"

	"github.com/yourusername/displayhop/internal/types"
)

// touchEpsilon is how far apart (in DP) two edges may be and still count as touching
const touchEpsilon = 0.5

// FromBounds builds a graph by deriving adjacency from absolute display bounds.
// Two displays are adjacent when one edge of each lies on the same line and the
// displays overlap along that line by more than a corner. Both directions are
// added, in display order.
func FromBounds(primary types.DisplayID, displays []Display) (*Graph, error) {
	g := NewGraph(primary)
	for _, d := range displays {
		if err := g.AddDisplay(d); err != nil {
			return nil, err
		}
	}

	for _, a := range displays {
		for _, b := range displays {
			if a.ID == b.ID {
				continue
			}
			side, ok := TouchingSide(a.Bounds, b.Bounds)
			if !ok {
				continue
			}
			if err := g.AddEdge(a.ID, b.ID, side); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// TouchingSide reports which side of a is touched by b, if any
func TouchingSide(a, b types.Rect) (types.Side, bool) {
	verticalOverlap := math.Min(a.Bottom, b.Bottom) - math.Max(a.Top, b.Top)
	horizontalOverlap := math.Min(a.Right, b.Right) - math.Max(a.Left, b.Left)

	switch {
	case verticalOverlap > 0 && near(a.Right, b.Left):
		return types.SideRight, true
	case verticalOverlap > 0 && near(a.Left, b.Right):
		return types.SideLeft, true
	case horizontalOverlap > 0 && near(a.Bottom, b.Top):
		return types.SideBottom, true
	case horizontalOverlap > 0 && near(a.Top, b.Bottom):
		return types.SideTop, true
	default:
		return 0, false
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= touchEpsilon
}
