package topology

import (
	"errors"
	"fmt"

	"github.com/yourusername/displayhop/internal/types"
)

// ErrNoPathFound is returned when the target display cannot be reached
var ErrNoPathFound = errors.New("no path found")

// NoPathError carries the endpoints of a failed search
type NoPathError struct {
	From types.DisplayID
	To   types.DisplayID
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path found from display %d to display %d", e.From, e.To)
}

// Unwrap lets callers match with errors.Is(err, ErrNoPathFound)
func (e *NoPathError) Unwrap() error {
	return ErrNoPathFound
}

// Hop is one step of a path. Side is the edge of the previous display
// that DisplayID touches, i.e. the direction to travel to get there.
type Hop struct {
	DisplayID types.DisplayID `json:"displayId"`
	Side      types.Side      `json:"side"`
}

// Path is the ordered list of hops, excluding the start display
type Path []Hop

// FindPath finds a minimum-hop route from start to end using BFS.
//
// The start display is not part of the result, so start == end yields an
// empty path. When several shortest paths exist, the one returned depends on
// the order in which edges were added to the graph; no further tie-break is
// applied.
func FindPath(start, end types.DisplayID, g *Graph) (Path, error) {
	if start == end {
		return Path{}, nil
	}

	queue := []types.DisplayID{start}
	visited := map[types.DisplayID]bool{start: true}
	// parent[id] is the display id was reached from and the side it was reached by
	parent := make(map[types.DisplayID]Hop)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == end {
			return backtrack(start, end, parent)
		}

		for _, edge := range g.Neighbors(current) {
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			parent[edge.To] = Hop{DisplayID: current, Side: edge.Side}
			queue = append(queue, edge.To)
		}
	}

	return nil, &NoPathError{From: start, To: end}
}

func backtrack(start, end types.DisplayID, parent map[types.DisplayID]Hop) (Path, error) {
	var reversed Path
	for id := end; id != start; {
		p, ok := parent[id]
		if !ok {
			return nil, fmt.Errorf("broken parent chain at display %d", id)
		}
		reversed = append(reversed, Hop{DisplayID: id, Side: p.Side})
		id = p.DisplayID
	}

	path := make(Path, len(reversed))
	for i, hop := range reversed {
		path[len(reversed)-1-i] = hop
	}
	return path, nil
}
