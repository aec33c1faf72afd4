package models

import (
	"fmt"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// TopologyResult encodes a graph as a topology.get result
func TopologyResult(g *topology.Graph) map[string]interface{} {
	displays := make([]interface{}, 0, g.Len())
	for _, d := range g.Displays() {
		displays = append(displays, map[string]interface{}{
			"id":      int(d.ID),
			"name":    d.Name,
			"left":    d.Bounds.Left,
			"top":     d.Bounds.Top,
			"right":   d.Bounds.Right,
			"bottom":  d.Bounds.Bottom,
			"density": d.Density,
		})
	}

	edges := make([]interface{}, 0)
	for _, e := range g.Edges() {
		edges = append(edges, map[string]interface{}{
			"from": int(e.From),
			"to":   int(e.To),
			"side": e.Side.String(),
		})
	}

	return map[string]interface{}{
		"primary":  int(g.Primary),
		"displays": displays,
		"edges":    edges,
	}
}

// ParseTopology rebuilds a graph from a topology.get result
func ParseTopology(raw map[string]interface{}) (*topology.Graph, error) {
	primary, err := IntParam(raw, "primary")
	if err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}

	rawDisplays, ok := raw["displays"].([]interface{})
	if !ok || len(rawDisplays) == 0 {
		return nil, fmt.Errorf("no displays in topology")
	}

	g := topology.NewGraph(types.DisplayID(primary))
	for i, d := range rawDisplays {
		display, ok := d.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("display %d: expected object, got %T", i, d)
		}
		if err := g.AddDisplay(parseDisplay(display)); err != nil {
			return nil, err
		}
	}
	if _, ok := g.Display(g.Primary); !ok {
		return nil, fmt.Errorf("primary display %d not in topology", primary)
	}

	// A missing edge list is an empty one
	rawEdges, _ := raw["edges"].([]interface{})
	for i, e := range rawEdges {
		edge, ok := e.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("edge %d: expected object, got %T", i, e)
		}
		side, ok := types.ParseSide(toString(edge["side"]))
		if !ok {
			return nil, fmt.Errorf("edge %d: invalid side %q", i, toString(edge["side"]))
		}
		from := types.DisplayID(toFloat64(edge["from"]))
		to := types.DisplayID(toFloat64(edge["to"]))
		if err := g.AddEdge(from, to, side); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func parseDisplay(display map[string]interface{}) topology.Display {
	return topology.Display{
		ID:   types.DisplayID(toFloat64(display["id"])),
		Name: toString(display["name"]),
		Bounds: types.Rect{
			Left:   toFloat64(display["left"]),
			Top:    toFloat64(display["top"]),
			Right:  toFloat64(display["right"]),
			Bottom: toFloat64(display["bottom"]),
		},
		Density: int(toFloat64(display["density"])),
	}
}
