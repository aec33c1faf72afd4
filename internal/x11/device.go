package x11

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"

	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

const (
	// relativeMotion is the XTEST detail value for a relative MotionNotify
	relativeMotion = 1
	primaryButton  = 1
)

// Device is the X server pointer. The monitor layout is captured at creation
// and on Refresh.
type Device struct {
	conn *Connection

	mu       sync.Mutex
	monitors []Monitor
	graph    *topology.Graph
}

// NewDevice captures the current monitor layout
func NewDevice(conn *Connection) (*Device, error) {
	d := &Device{conn: conn}
	if err := d.Refresh(); err != nil {
		return nil, err
	}
	return d, nil
}

// Refresh re-reads the monitor layout
func (d *Device) Refresh() error {
	monitors, err := d.conn.Monitors()
	if err != nil {
		return err
	}
	g, err := BuildGraph(monitors)
	if err != nil {
		return fmt.Errorf("failed to build topology: %w", err)
	}

	d.mu.Lock()
	d.monitors = monitors
	d.graph = g
	d.mu.Unlock()

	logging.Debug().Int("monitors", len(monitors)).Int("primary", int(g.Primary)).Msg("x11 topology loaded")
	return nil
}

func (d *Device) pointer() (int, int, error) {
	reply, err := xproto.QueryPointer(d.conn.XUtil.Conn(), d.conn.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (d *Device) CursorDisplayID(ctx context.Context) (types.DisplayID, bool, error) {
	x, y, err := d.pointer()
	if err != nil {
		return 0, false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := monitorAt(d.monitors, x, y)
	return m.ID, ok, nil
}

func (d *Device) CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error) {
	x, y, err := d.pointer()
	if err != nil {
		return types.Point{}, false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := monitorAt(d.monitors, x, y)
	if !ok || m.ID != id {
		return types.Point{}, false, nil
	}
	return types.Point{X: float64(x - m.X), Y: float64(y - m.Y)}, true, nil
}

// SendRelativeMove injects relative pointer motion through XTEST. Deltas
// beyond the protocol's int16 range are sent as several events.
func (d *Device) SendRelativeMove(ctx context.Context, dx, dy int) error {
	for _, step := range motionSteps(dx, dy) {
		err := xtest.FakeInputChecked(d.conn.XUtil.Conn(), xproto.MotionNotify, relativeMotion,
			xproto.TimeCurrentTime, xproto.WindowNone, step[0], step[1], 0).Check()
		if err != nil {
			return fmt.Errorf("xtest motion failed: %w", err)
		}
	}
	return nil
}

// motionSteps splits (dx, dy) into int16 sized pieces summing to the delta.
// A zero delta still yields one event.
func motionSteps(dx, dy int) [][2]int16 {
	steps := [][2]int16{}
	for {
		sx := clampInt16(dx)
		sy := clampInt16(dy)
		steps = append(steps, [2]int16{sx, sy})
		dx -= int(sx)
		dy -= int(sy)
		if dx == 0 && dy == 0 {
			return steps
		}
	}
}

func clampInt16(v int) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, v)))
}

// SyncInput makes a round trip so every earlier request has been processed
func (d *Device) SyncInput(ctx context.Context) error {
	if _, err := xproto.GetInputFocus(d.conn.XUtil.Conn()).Reply(); err != nil {
		return fmt.Errorf("x11 sync failed: %w", err)
	}
	return nil
}

func (d *Device) Topology(ctx context.Context) (*topology.Graph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.graph, nil
}

func (d *Device) PressButton(ctx context.Context) error {
	return d.button(xproto.ButtonPress)
}

func (d *Device) ReleaseButton(ctx context.Context) error {
	return d.button(xproto.ButtonRelease)
}

func (d *Device) button(event byte) error {
	err := xtest.FakeInputChecked(d.conn.XUtil.Conn(), event, primaryButton,
		xproto.TimeCurrentTime, xproto.WindowNone, 0, 0, 0).Check()
	if err != nil {
		return fmt.Errorf("xtest button event failed: %w", err)
	}
	return nil
}
