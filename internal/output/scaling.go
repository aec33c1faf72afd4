package output

import (
	"math"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// ScalingContext handles coordinate transformation from DP space to terminal character space
type ScalingContext struct {
	// Union of all display bounds in DP
	MinX, MinY float64
	MaxX, MaxY float64

	// Terminal dimensions in characters
	TermWidth  int
	TermHeight int

	// Characters per DP horizontally
	Scale float64

	// Aspect ratio correction (terminal characters are typically 2:1 height:width)
	AspectRatio float64
}

// NewScalingContext fits every display of g into a termWidth x termHeight area.
// One scale is used for both axes so shapes keep their proportions.
func NewScalingContext(g *topology.Graph, termWidth, termHeight int) *ScalingContext {
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, d := range g.Displays() {
		minX = math.Min(minX, d.Bounds.Left)
		minY = math.Min(minY, d.Bounds.Top)
		maxX = math.Max(maxX, d.Bounds.Right)
		maxY = math.Max(maxY, d.Bounds.Bottom)
	}
	if g.Len() == 0 {
		minX, minY, maxX, maxY = 0, 0, 1920, 1080
	}

	// Leave one column and row for the closing border
	availWidth := termWidth - 1
	availHeight := termHeight - 1
	if availWidth < 10 {
		availWidth = 10
	}
	if availHeight < 5 {
		availHeight = 5
	}

	const aspect = 2.0
	scaleX := float64(availWidth) / (maxX - minX)
	scaleY := float64(availHeight) * aspect / (maxY - minY)

	return &ScalingContext{
		MinX:        minX,
		MinY:        minY,
		MaxX:        maxX,
		MaxY:        maxY,
		TermWidth:   termWidth,
		TermHeight:  termHeight,
		Scale:       math.Min(scaleX, scaleY),
		AspectRatio: aspect,
	}
}

// ToTerminal converts a global DP point to terminal coordinates
func (sc *ScalingContext) ToTerminal(p types.Point) (int, int) {
	termX := int(math.Round((p.X - sc.MinX) * sc.Scale))
	termY := int(math.Round((p.Y - sc.MinY) * sc.Scale / sc.AspectRatio))
	return termX, termY
}

// RectToTerminal converts DP bounds to a terminal box. Boxes of touching
// displays share their border column or row.
func (sc *ScalingContext) RectToTerminal(r types.Rect) (x, y, w, h int) {
	x, y = sc.ToTerminal(types.Point{X: r.Left, Y: r.Top})
	right, bottom := sc.ToTerminal(types.Point{X: r.Right, Y: r.Bottom})

	// Minimum size of 3x2 for visibility
	w = max(right-x+1, 3)
	h = max(bottom-y+1, 2)
	return x, y, w, h
}

// Size returns the canvas size needed to draw everything
func (sc *ScalingContext) Size() (int, int) {
	w, h := sc.ToTerminal(types.Point{X: sc.MaxX, Y: sc.MaxY})
	return min(w+1, max(sc.TermWidth, 11)), min(h+1, max(sc.TermHeight, 6))
}
