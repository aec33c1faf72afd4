// Package sim provides a simulated mouse over a multi-display topology.
//
// The cursor lives at a global DP position. Relative moves arrive in device
// pixels of the display the cursor is on, are converted with that display's
// density, and transfer the cursor to an adjacent display when the new point
// leaves the current one and lands inside the neighbor. Otherwise the cursor
// is clamped to the current display, like a real pointer at a screen edge.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// ButtonEvent records a press or release
type ButtonEvent struct {
	Pressed bool
	At      types.Point // global DP position when the event happened
}

// Device is a simulated cursor device. Safe for concurrent use.
type Device struct {
	mu sync.Mutex

	graph     *topology.Graph
	displayID types.DisplayID
	pos       types.Point // global DP
	hidden    bool

	// crossing report lag
	lag        int
	pendingLag int
	reportedID types.DisplayID

	blocked map[[2]types.DisplayID]bool

	buttonDown bool
	buttons    []ButtonEvent
	moves      []types.Delta
	syncs      int
}

// New creates a device with the cursor centered on the graph's primary display
func New(g *topology.Graph) (*Device, error) {
	primary, ok := g.Display(g.Primary)
	if !ok {
		return nil, fmt.Errorf("primary display %d not in topology", g.Primary)
	}
	return &Device{
		graph:      g,
		displayID:  primary.ID,
		reportedID: primary.ID,
		pos:        primary.Bounds.Center(),
		blocked:    make(map[[2]types.DisplayID]bool),
	}, nil
}

// Place puts the cursor at a local pixel position on a display
func (d *Device) Place(id types.DisplayID, local types.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	disp, ok := d.graph.Display(id)
	if !ok {
		return fmt.Errorf("display %d not in topology", id)
	}
	global := disp.ToGlobal(local)
	d.displayID = id
	d.reportedID = id
	d.pendingLag = 0
	d.pos = disp.Bounds.Clamp(global)
	d.hidden = false
	return nil
}

// Hide removes the cursor from every display
func (d *Device) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hidden = true
}

// SetCrossingLag makes the device keep reporting the old display for n
// display queries after each crossing
func (d *Device) SetCrossingLag(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lag = n
}

// Block prevents the cursor from transferring from one display to another
func (d *Device) Block(from, to types.DisplayID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocked[[2]types.DisplayID{from, to}] = true
}

// Global returns the current display and global DP position
func (d *Device) Global() (types.DisplayID, types.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.displayID, d.pos
}

// Local returns the current display and local pixel position
func (d *Device) Local() (types.DisplayID, types.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	disp, _ := d.graph.Display(d.displayID)
	return d.displayID, disp.ToLocal(d.pos)
}

// Moves returns every relative move received, in order
func (d *Device) Moves() []types.Delta {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]types.Delta(nil), d.moves...)
}

// Buttons returns every button event received, in order
func (d *Device) Buttons() []ButtonEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ButtonEvent(nil), d.buttons...)
}

// Syncs returns how many times SyncInput was called
func (d *Device) Syncs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncs
}

// CursorDisplayID reports the display the cursor is on
func (d *Device) CursorDisplayID(ctx context.Context) (types.DisplayID, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hidden {
		return 0, false, nil
	}
	if d.pendingLag > 0 {
		d.pendingLag--
		return d.reportedID, true, nil
	}
	d.reportedID = d.displayID
	return d.displayID, true, nil
}

// CursorPosition reports the local pixel position if the cursor is on id
func (d *Device) CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hidden || id != d.displayID {
		return types.Point{}, false, nil
	}
	disp, _ := d.graph.Display(id)
	return disp.ToLocal(d.pos), true, nil
}

// SendRelativeMove moves the cursor by (dx, dy) pixels of the current display
func (d *Device) SendRelativeMove(ctx context.Context, dx, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hidden {
		return fmt.Errorf("no cursor to move")
	}
	d.moves = append(d.moves, types.Delta{DX: dx, DY: dy})

	current, _ := d.graph.Display(d.displayID)
	next := d.pos.Add(types.DeltaF{
		DX: types.PxToDp(float64(dx), current.Density),
		DY: types.PxToDp(float64(dy), current.Density),
	})

	if current.Bounds.Contains(next) {
		d.pos = next
		return nil
	}

	for _, edge := range d.graph.Neighbors(current.ID) {
		if d.blocked[[2]types.DisplayID{edge.From, edge.To}] {
			continue
		}
		neighbor, ok := d.graph.Display(edge.To)
		if !ok || !neighbor.Bounds.Contains(next) {
			continue
		}
		d.reportedID = d.displayID
		d.displayID = neighbor.ID
		d.pos = next
		d.pendingLag = d.lag
		return nil
	}

	d.pos = current.Bounds.Clamp(next)
	return nil
}

// SyncInput is a no-op: simulated moves apply synchronously
func (d *Device) SyncInput(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncs++
	return nil
}

// Topology returns the simulated topology
func (d *Device) Topology(ctx context.Context) (*topology.Graph, error) {
	return d.graph, nil
}

// PressButton presses the primary button
func (d *Device) PressButton(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.buttonDown {
		return fmt.Errorf("button already pressed")
	}
	d.buttonDown = true
	d.buttons = append(d.buttons, ButtonEvent{Pressed: true, At: d.pos})
	return nil
}

// ReleaseButton releases the primary button
func (d *Device) ReleaseButton(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.buttonDown {
		return fmt.Errorf("button not pressed")
	}
	d.buttonDown = false
	d.buttons = append(d.buttons, ButtonEvent{Pressed: false, At: d.pos})
	return nil
}

// ButtonDown reports whether the primary button is held
func (d *Device) ButtonDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttonDown
}
