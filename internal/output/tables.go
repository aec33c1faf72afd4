package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// PrintDisplaysTable prints displays in a table format. The display holding
// the cursor is marked when cursorDisplay is non-zero.
func PrintDisplaysTable(w io.Writer, g *topology.Graph, cursorDisplay types.DisplayID) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Bounds", "Size", "Density", "Flags")

	displays := g.Displays()
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	for _, d := range displays {
		var flags []string
		if d.ID == g.Primary {
			flags = append(flags, "primary")
		}
		if cursorDisplay != 0 && d.ID == cursorDisplay {
			flags = append(flags, "cursor")
		}

		table.Append(
			fmt.Sprintf("%d", d.ID),
			truncate(d.Name, 25),
			d.Bounds.String(),
			fmt.Sprintf("%.0fx%.0f", d.Bounds.Width(), d.Bounds.Height()),
			fmt.Sprintf("%d", d.Density),
			strings.Join(flags, ", "),
		)
	}

	table.Render()
}

// PrintEdgesTable prints the adjacency list
func PrintEdgesTable(w io.Writer, g *topology.Graph) {
	table := tablewriter.NewWriter(w)
	table.Header("From", "Side", "To")

	for _, e := range g.Edges() {
		table.Append(
			fmt.Sprintf("%d", e.From),
			e.Side.String(),
			fmt.Sprintf("%d", e.To),
		)
	}

	table.Render()
}

// PrintPlanTable prints one row per boundary crossing of a planned move
func PrintPlanTable(w io.Writer, plans []cursor.HopPlan) {
	table := tablewriter.NewWriter(w)
	table.Header("#", "From", "To", "Side", "Edge (px)", "Nudge (px)")

	for i, p := range plans {
		table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", p.From),
			fmt.Sprintf("%d", p.To),
			p.Side.String(),
			fmt.Sprintf("%.1f, %.1f", p.EdgePx.X, p.EdgePx.Y),
			fmt.Sprintf("%+.0f, %+.0f", p.Nudge.DX, p.Nudge.DY),
		)
	}

	table.Render()
}

// Helper functions

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
