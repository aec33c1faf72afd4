package cursor

import (
	"fmt"

	"github.com/yourusername/displayhop/internal/crossing"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// HopPlan is the crossing geometry for one hop, in both coordinate spaces
type HopPlan struct {
	From   types.DisplayID `json:"from"`
	To     types.DisplayID `json:"to"`
	Side   types.Side      `json:"side"`
	Detail crossing.Detail `json:"detail"` // global DP
	EdgePx types.Point     `json:"edgePx"` // boundary midpoint, local PX of From
	Nudge  types.DeltaF    `json:"nudgePx"`
}

// PlanHop computes where to aim on `from` and how far to nudge to land on `to`.
//
// The cursor moves in device pixels, but only DP bounds are global since each
// display may have a different density. So the midpoint goes global DP ->
// local DP (subtract the display origin) -> PX with from's density.
func PlanHop(from, to topology.Display, side types.Side, offsetDp float64) (HopPlan, error) {
	if err := crossing.CheckAdjacent(from.Bounds, to.Bounds, side); err != nil {
		return HopPlan{}, fmt.Errorf("display %d -> %d: %w", from.ID, to.ID, err)
	}

	detail := crossing.Calculate(from.Bounds, to.Bounds, side, offsetDp)
	return HopPlan{
		From:   from.ID,
		To:     to.ID,
		Side:   side,
		Detail: detail,
		EdgePx: from.ToLocal(detail.Target),
		Nudge: types.DeltaF{
			DX: types.DpToPx(detail.Nudge.DX, from.Density),
			DY: types.DpToPx(detail.Nudge.DY, from.Density),
		},
	}, nil
}

// PlanPath plans every hop of a path starting at start
func PlanPath(g *topology.Graph, start types.DisplayID, path topology.Path, offsetDp float64) ([]HopPlan, error) {
	plans := make([]HopPlan, 0, len(path))
	current := start
	for _, hop := range path {
		from, ok := g.Display(current)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownDisplay, current)
		}
		to, ok := g.Display(hop.DisplayID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownDisplay, hop.DisplayID)
		}
		plan, err := PlanHop(from, to, hop.Side, offsetDp)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
		current = hop.DisplayID
	}
	return plans, nil
}
