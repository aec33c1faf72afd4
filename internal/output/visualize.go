package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// VisualizationOptions controls the appearance of the visualization
type VisualizationOptions struct {
	UseUnicode  bool
	ShowDensity bool
	MaxWidth    int
	MaxHeight   int
}

// DefaultVisualizationOptions returns sensible defaults
func DefaultVisualizationOptions() VisualizationOptions {
	width, height := getTerminalSize()
	return VisualizationOptions{
		UseUnicode:  supportsUnicode(),
		ShowDensity: true,
		MaxWidth:    width,
		MaxHeight:   height - 4, // room for header and footer
	}
}

// Marks are points drawn over the topology, in global DP
type Marks struct {
	Cursor    *types.Point
	Crossings []types.Point
}

// VisualizeTopology renders every display of g at its position, with the
// optional cursor and crossing points
func VisualizeTopology(g *topology.Graph, marks Marks, opts VisualizationOptions) string {
	if g.Len() == 0 {
		return "No displays found\n"
	}

	sc := NewScalingContext(g, opts.MaxWidth, opts.MaxHeight)
	width, height := sc.Size()
	canvas := NewCanvas(width, height, opts.UseUnicode)

	for _, d := range g.Displays() {
		canvas.DrawBox(sc.RectToTerminal(d.Bounds))
	}
	// Labels after all borders so a neighbor's border cannot overwrite them
	for _, d := range g.Displays() {
		x, y, w, h := sc.RectToTerminal(d.Bounds)
		drawLabels(canvas, d, g.Primary, x, y, w, h, opts)
	}

	for _, p := range marks.Crossings {
		cx, cy := sc.ToTerminal(p)
		canvas.SetCell(cx, cy, canvas.Style().Crossing)
	}
	if marks.Cursor != nil {
		cx, cy := sc.ToTerminal(*marks.Cursor)
		canvas.SetCell(cx, cy, canvas.Style().Cursor)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d displays, primary %d\n", g.Len(), g.Primary)
	sb.WriteString(canvas.String())
	sb.WriteString("\n")
	return sb.String()
}

func drawLabels(canvas *Canvas, d topology.Display, primary types.DisplayID, x, y, w, h int, opts VisualizationOptions) {
	inner := w - 2
	if inner < 1 || h < 3 {
		return
	}

	label := fmt.Sprintf("[%d]", d.ID)
	if d.ID == primary {
		label += "*"
	}
	if d.Name != "" {
		label += " " + d.Name
	}
	canvas.DrawTextCentered(x+1, y+1, inner, truncate(label, inner))

	if opts.ShowDensity && h >= 4 {
		detail := fmt.Sprintf("%.0fx%.0f @%d", d.Bounds.Width(), d.Bounds.Height(), d.Density)
		if len(detail) <= inner {
			canvas.DrawTextCentered(x+1, y+2, inner, detail)
		}
	}
}

// getTerminalSize returns the current terminal dimensions
func getTerminalSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		// Default to 80x24 if we can't detect
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// supportsUnicode checks if the terminal supports Unicode
func supportsUnicode() bool {
	// Check LANG and LC_ALL environment variables
	lang := os.Getenv("LANG")
	lcAll := os.Getenv("LC_ALL")

	return strings.Contains(lang, "UTF-8") || strings.Contains(lcAll, "UTF-8")
}

// PrintVisualization writes a colored visualization to w
func PrintVisualization(w io.Writer, g *topology.Graph, marks Marks, opts VisualizationOptions) {
	result := VisualizeTopology(g, marks, opts)

	// Apply color if enabled
	if color.NoColor {
		fmt.Fprint(w, result)
		return
	}
	cyan := color.New(color.FgCyan)
	cyan.Fprint(w, result)
}
