// Package topology models a snapshot of displays arranged in a shared logical
// coordinate space and the adjacency between them.
package topology

import (
	"fmt"

	"github.com/yourusername/displayhop/internal/types"
)

// Display is one node of the topology: absolute bounds in DP plus density
type Display struct {
	ID      types.DisplayID `json:"id"`
	Name    string          `json:"name,omitempty"`
	Bounds  types.Rect      `json:"bounds"`
	Density int             `json:"density"` // dots per inch, types.BaselineDensity == 1px per DP
}

// ToLocal converts a global DP point to device pixels relative to the display origin
func (d Display) ToLocal(global types.Point) types.Point {
	return types.Point{
		X: types.DpToPx(global.X-d.Bounds.Left, d.Density),
		Y: types.DpToPx(global.Y-d.Bounds.Top, d.Density),
	}
}

// ToGlobal converts local device pixels to a global DP point
func (d Display) ToGlobal(local types.Point) types.Point {
	return types.Point{
		X: d.Bounds.Left + types.PxToDp(local.X, d.Density),
		Y: d.Bounds.Top + types.PxToDp(local.Y, d.Density),
	}
}

// Edge is a directed adjacency: To touches the Side edge of From
type Edge struct {
	From types.DisplayID `json:"from"`
	To   types.DisplayID `json:"to"`
	Side types.Side      `json:"side"`
}

// Graph is a read-only snapshot once handed to the path finder and mover.
// Builders (config, simulator, X11 backend) populate it with AddDisplay/AddEdge.
type Graph struct {
	Primary types.DisplayID

	displays  map[types.DisplayID]Display
	order     []types.DisplayID
	adjacency map[types.DisplayID][]Edge
}

// NewGraph creates an empty graph with the given primary display id
func NewGraph(primary types.DisplayID) *Graph {
	return &Graph{
		Primary:   primary,
		displays:  make(map[types.DisplayID]Display),
		adjacency: make(map[types.DisplayID][]Edge),
	}
}

// AddDisplay registers a display node
func (g *Graph) AddDisplay(d Display) error {
	if _, exists := g.displays[d.ID]; exists {
		return fmt.Errorf("duplicate display id %d", d.ID)
	}
	if d.Density <= 0 {
		return fmt.Errorf("display %d: density must be positive, got %d", d.ID, d.Density)
	}
	if d.Bounds.IsEmpty() {
		return fmt.Errorf("display %d: empty bounds %s", d.ID, d.Bounds)
	}
	g.displays[d.ID] = d
	g.order = append(g.order, d.ID)
	return nil
}

// AddEdge records that `to` touches the `side` edge of `from`.
// The reverse edge is not synthesized.
func (g *Graph) AddEdge(from, to types.DisplayID, side types.Side) error {
	if _, ok := g.displays[from]; !ok {
		return fmt.Errorf("edge from unknown display %d", from)
	}
	if _, ok := g.displays[to]; !ok {
		return fmt.Errorf("edge to unknown display %d", to)
	}
	if from == to {
		return fmt.Errorf("display %d cannot be adjacent to itself", from)
	}
	if !side.Valid() {
		return fmt.Errorf("edge %d->%d: invalid side %d", from, to, int(side))
	}
	for _, e := range g.adjacency[from] {
		if e.To == to {
			return fmt.Errorf("duplicate edge %d->%d", from, to)
		}
	}
	g.adjacency[from] = append(g.adjacency[from], Edge{From: from, To: to, Side: side})
	return nil
}

// Display returns the display with the given id
func (g *Graph) Display(id types.DisplayID) (Display, bool) {
	d, ok := g.displays[id]
	return d, ok
}

// Displays returns all displays in insertion order
func (g *Graph) Displays() []Display {
	out := make([]Display, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.displays[id])
	}
	return out
}

// Neighbors returns the outgoing edges of a display in stored order
func (g *Graph) Neighbors(id types.DisplayID) []Edge {
	return g.adjacency[id]
}

// Edges returns every directed edge, grouped by source in display order
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.order {
		out = append(out, g.adjacency[id]...)
	}
	return out
}

// EdgeBetween returns the edge from -> to if one exists
func (g *Graph) EdgeBetween(from, to types.DisplayID) (Edge, bool) {
	for _, e := range g.adjacency[from] {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// Len returns the number of displays
func (g *Graph) Len() int {
	return len(g.order)
}
