package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// Monitor is an active CRTC in root window pixels
type Monitor struct {
	ID      types.DisplayID
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// Contains reports whether root coordinates (x, y) are on the monitor.
// Monitors tile the root window, so the right and bottom edges are exclusive.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active monitors using XRandR
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if len(info.Outputs) > 0 {
			if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
				name = string(out.Name)
			}
		}

		if m, ok := crtcMonitor(crtc, info, name, primary); ok {
			monitors = append(monitors, m)
		}
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("no active monitors")
	}
	return monitors, nil
}

// crtcMonitor describes an active CRTC as a monitor identified by the CRTC id.
// Disabled CRTCs report false.
func crtcMonitor(crtc randr.Crtc, info *randr.GetCrtcInfoReply, name string, primary randr.Output) (Monitor, bool) {
	if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
		return Monitor{}, false
	}

	isPrimary := false
	for _, o := range info.Outputs {
		if primary != 0 && o == primary {
			isPrimary = true
		}
	}

	return Monitor{
		ID:      types.DisplayID(crtc),
		Name:    name,
		X:       int(info.X),
		Y:       int(info.Y),
		Width:   int(info.Width),
		Height:  int(info.Height),
		Primary: isPrimary,
	}, true
}

// BuildGraph turns monitors into a topology with adjacency derived from their
// positions. The primary is the RandR primary output, else the monitor at the
// root origin, else the first monitor.
func BuildGraph(monitors []Monitor) (*topology.Graph, error) {
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors")
	}

	primary := monitors[0].ID
	for _, m := range monitors {
		if m.X == 0 && m.Y == 0 {
			primary = m.ID
			break
		}
	}
	for _, m := range monitors {
		if m.Primary {
			primary = m.ID
			break
		}
	}

	displays := make([]topology.Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, topology.Display{
			ID:   m.ID,
			Name: m.Name,
			Bounds: types.Rect{
				Left:   float64(m.X),
				Top:    float64(m.Y),
				Right:  float64(m.X + m.Width),
				Bottom: float64(m.Y + m.Height),
			},
			Density: types.BaselineDensity,
		})
	}
	return topology.FromBounds(primary, displays)
}

// monitorAt returns the monitor containing root coordinates (x, y)
func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}
