package cursor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/displayhop/internal/crossing"
	"github.com/yourusername/displayhop/internal/sim"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

func testOptions() Options {
	return Options{
		InputDelay:      -1,
		CrossingTimeout: 50 * time.Millisecond,
		SettleTimeout:   50 * time.Millisecond,
		PollInterval:    time.Millisecond,
	}
}

func rectAt(x, y, w, h float64) types.Rect {
	return types.Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// plusGraph arranges displays as:
//
//	[4] - [2] - [3]
//	       |
//	      [1]
func plusGraph(t *testing.T, densities map[types.DisplayID]int) *topology.Graph {
	t.Helper()
	density := func(id types.DisplayID) int {
		if d, ok := densities[id]; ok {
			return d
		}
		return types.BaselineDensity
	}
	g, err := topology.FromBounds(1, []topology.Display{
		{ID: 1, Bounds: rectAt(0, 0, 100, 100), Density: density(1)},
		{ID: 2, Bounds: rectAt(0, -100, 100, 100), Density: density(2)},
		{ID: 3, Bounds: rectAt(100, -110, 100, 100), Density: density(3)},
		{ID: 4, Bounds: rectAt(-100, -110, 100, 100), Density: density(4)},
	})
	require.NoError(t, err)
	return g
}

// assertNear checks a local position within the default pixel tolerance
func assertNear(t *testing.T, want, got types.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, DefaultTolerancePx, "x")
	assert.InDelta(t, want.Y, got.Y, DefaultTolerancePx, "y")
}

func newSim(t *testing.T, g *topology.Graph) *sim.Device {
	t.Helper()
	dev, err := sim.New(g)
	require.NoError(t, err)
	return dev
}

func TestMoveTo_SameDisplay(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	m := NewMover(dev, testOptions())

	require.NoError(t, m.MoveTo(context.Background(), 1, 10, 80))

	id, pos := dev.Local()
	assert.Equal(t, types.DisplayID(1), id)
	assert.Equal(t, types.Point{X: 10, Y: 80}, pos)
	assert.Equal(t, State{DisplayID: 1, Position: types.Pixel{X: 10, Y: 80}}, m.State())
	assert.Zero(t, dev.Syncs(), "no crossing, no sync")
}

func TestMoveTo_AcrossDisplays(t *testing.T) {
	tests := []struct {
		name      string
		densities map[types.DisplayID]int
		from      types.DisplayID
		to        types.DisplayID
		x, y      int
		hops      int
	}{
		{"1 to 2", nil, 1, 2, 20, 30, 1},
		{"1 to 3", nil, 1, 3, 60, 40, 2},
		{"3 to 4", nil, 3, 4, 99, 0, 2},
		{"4 to 1", nil, 4, 1, 0, 99, 2},
		{"mixed density 1 to 3", map[types.DisplayID]int{2: 320, 3: 240}, 1, 3, 120, 100, 2},
		{"mixed density 3 to 1", map[types.DisplayID]int{1: 480, 2: 320}, 3, 1, 250, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := plusGraph(t, tt.densities)
			dev := newSim(t, g)
			require.NoError(t, dev.Place(tt.from, types.Point{X: 30, Y: 30}))
			m := NewMover(dev, testOptions())

			require.NoError(t, m.MoveTo(context.Background(), tt.to, tt.x, tt.y))

			id, pos := dev.Local()
			assert.Equal(t, tt.to, id)
			assertNear(t, types.Point{X: float64(tt.x), Y: float64(tt.y)}, pos)
			assert.Equal(t, tt.hops, dev.Syncs(), "one input sync per crossing")
			assert.Equal(t, tt.to, m.State().DisplayID)
		})
	}
}

func TestMoveTo_SurvivesCrossingLag(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	dev.SetCrossingLag(3)
	m := NewMover(dev, testOptions())

	require.NoError(t, m.MoveTo(context.Background(), 3, 50, 50))

	id, _ := dev.Local()
	assert.Equal(t, types.DisplayID(3), id)
}

func TestMoveTo_NoCursor(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	dev.Hide()
	m := NewMover(dev, testOptions())

	err := m.MoveTo(context.Background(), 3, 10, 10)
	assert.ErrorIs(t, err, ErrNoCursorFound)
	assert.Empty(t, dev.Moves())
}

func TestMoveTo_NoPath(t *testing.T) {
	g, err := topology.FromBounds(1, []topology.Display{
		{ID: 1, Bounds: rectAt(0, 0, 100, 100), Density: 160},
		{ID: 2, Bounds: rectAt(500, 500, 100, 100), Density: 160},
	})
	require.NoError(t, err)
	dev := newSim(t, g)
	m := NewMover(dev, testOptions())

	err = m.MoveTo(context.Background(), 2, 10, 10)
	assert.ErrorIs(t, err, topology.ErrNoPathFound)
	assert.Empty(t, dev.Moves(), "no movement before the path is known")
}

func TestMoveTo_CrossingTimeout(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	dev.Block(2, 3)
	m := NewMover(dev, testOptions())

	err := m.MoveTo(context.Background(), 3, 10, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrossingTimeout)

	var ce *CrossingError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, types.DisplayID(2), ce.From)
	assert.Equal(t, types.DisplayID(3), ce.To)
	assert.Equal(t, types.SideRight, ce.Side)

	id, _ := dev.Local()
	assert.Equal(t, types.DisplayID(2), id, "first hop completed")
}

func TestMoveTo_NonOverlappingEdgeIsRejected(t *testing.T) {
	g := topology.NewGraph(1)
	require.NoError(t, g.AddDisplay(topology.Display{ID: 1, Bounds: rectAt(0, 0, 100, 100), Density: 160}))
	require.NoError(t, g.AddDisplay(topology.Display{ID: 2, Bounds: rectAt(100, 300, 100, 100), Density: 160}))
	require.NoError(t, g.AddEdge(1, 2, types.SideRight))
	dev := newSim(t, g)
	m := NewMover(dev, testOptions())

	err := m.MoveTo(context.Background(), 2, 10, 10)
	assert.ErrorIs(t, err, crossing.ErrNotAdjacent)
	assert.Empty(t, dev.Moves())
}

func TestMoveTo_CancelledContext(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	m := NewMover(dev, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.MoveTo(ctx, 1, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMoveByDelta_SendsSingleMove(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	m := NewMover(dev, testOptions())

	require.NoError(t, m.MoveByDelta(context.Background(), 7, -3))

	assert.Equal(t, []types.Delta{{DX: 7, DY: -3}}, dev.Moves())
	_, pos := dev.Local()
	assert.Equal(t, types.Point{X: 57, Y: 47}, pos)
}

func TestMoveByDelta_RefreshesStateAcrossBoundary(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	m := NewMover(dev, testOptions())
	ctx := context.Background()

	require.NoError(t, m.MoveTo(ctx, 1, 50, 5))
	require.NoError(t, m.MoveByDelta(ctx, 0, -20))

	id, pos := dev.Local()
	assert.Equal(t, types.DisplayID(2), id)
	assert.Equal(t, State{DisplayID: id, Position: pos.Round()}, m.State())
}

func TestMoveByDelta_KeepsStateWhenCursorVanishes(t *testing.T) {
	dev := newStuckDevice(t)
	m := NewMover(dev, testOptions())
	ctx := context.Background()

	_, err := m.Refresh(ctx)
	require.NoError(t, err)
	dev.hidden = true

	require.NoError(t, m.MoveByDelta(ctx, 3, 4))
	assert.Equal(t, State{DisplayID: 1, Position: types.Pixel{X: 3, Y: 4}}, m.State())
}

func TestMover_InputDelayAfterEveryMove(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	opts := testOptions()
	opts.InputDelay = 5 * time.Millisecond
	m := NewMover(dev, opts)

	var slept []time.Duration
	m.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, m.MoveTo(context.Background(), 1, 40, 50))

	assert.Len(t, slept, len(dev.Moves()))
	for _, d := range slept {
		assert.Equal(t, 5*time.Millisecond, d)
	}
}

func TestCenterAndReset(t *testing.T) {
	dev := newSim(t, plusGraph(t, map[types.DisplayID]int{3: 320}))
	m := NewMover(dev, testOptions())
	ctx := context.Background()

	require.NoError(t, m.Center(ctx, 3))
	id, pos := dev.Local()
	assert.Equal(t, types.DisplayID(3), id)
	assertNear(t, types.Point{X: 100, Y: 100}, pos)

	require.NoError(t, m.Reset(ctx))
	id, pos = dev.Local()
	assert.Equal(t, types.DisplayID(1), id)
	assertNear(t, types.Point{X: 50, Y: 50}, pos)

	assert.ErrorIs(t, m.Center(ctx, 99), ErrUnknownDisplay)
}

func TestDrag(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	m := NewMover(dev, testOptions())

	require.NoError(t, m.Drag(context.Background(), 2, 10, 10))

	events := dev.Buttons()
	require.Len(t, events, 2)
	assert.True(t, events[0].Pressed)
	assert.Equal(t, types.Point{X: 50, Y: 50}, events[0].At)
	assert.False(t, events[1].Pressed)
	assert.Equal(t, types.Point{X: 10, Y: -90}, events[1].At)
	assert.False(t, dev.ButtonDown())
}

func TestDrag_ReleasesOnFailure(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	dev.Block(1, 2)
	m := NewMover(dev, testOptions())

	err := m.Drag(context.Background(), 2, 10, 10)
	assert.ErrorIs(t, err, ErrCrossingTimeout)
	assert.False(t, dev.ButtonDown())
}

// stuckDevice is a single display whose cursor ignores relative moves, apart
// from an optional fixed drift.
type stuckDevice struct {
	graph *topology.Graph
	pos   types.Point
	drift  types.Point
	moves  int
	hidden bool
}

func newStuckDevice(t *testing.T) *stuckDevice {
	t.Helper()
	g := topology.NewGraph(1)
	require.NoError(t, g.AddDisplay(topology.Display{ID: 1, Bounds: rectAt(0, 0, 100, 100), Density: 160}))
	return &stuckDevice{graph: g}
}

func (d *stuckDevice) CursorDisplayID(ctx context.Context) (types.DisplayID, bool, error) {
	return 1, !d.hidden, nil
}

func (d *stuckDevice) CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error) {
	return types.Point{X: d.pos.X + d.drift.X, Y: d.pos.Y + d.drift.Y}, id == 1 && !d.hidden, nil
}

func (d *stuckDevice) SendRelativeMove(ctx context.Context, dx, dy int) error {
	d.moves++
	return nil
}

func (d *stuckDevice) SyncInput(ctx context.Context) error { return nil }

func (d *stuckDevice) Topology(ctx context.Context) (*topology.Graph, error) { return d.graph, nil }

func TestMoveTo_ToleranceIsSoftByDefault(t *testing.T) {
	dev := newStuckDevice(t)
	m := NewMover(dev, testOptions())

	require.NoError(t, m.MoveTo(context.Background(), 1, 50, 50))
	assert.NotZero(t, dev.moves)
}

func TestMoveTo_SettleTimeoutBoundsFinalWait(t *testing.T) {
	dev := newStuckDevice(t)
	opts := testOptions()
	opts.CrossingTimeout = 10 * time.Second
	opts.SettleTimeout = 20 * time.Millisecond
	m := NewMover(dev, opts)

	start := time.Now()
	require.NoError(t, m.MoveTo(context.Background(), 1, 50, 50))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestMoveTo_StrictTolerance(t *testing.T) {
	dev := newStuckDevice(t)
	opts := testOptions()
	opts.StrictFinalPosition = true
	m := NewMover(dev, opts)

	err := m.MoveTo(context.Background(), 1, 50, 50)
	assert.ErrorIs(t, err, ErrFinalPositionTolerance)
}

func TestMoveTo_DriftWithinTolerance(t *testing.T) {
	dev := newStuckDevice(t)
	dev.pos = types.Point{X: 20, Y: 20}
	dev.drift = types.Point{X: 1, Y: -1}
	opts := testOptions()
	opts.StrictFinalPosition = true
	m := NewMover(dev, opts)

	require.NoError(t, m.MoveTo(context.Background(), 1, 20, 20))
}

func TestDrag_Unsupported(t *testing.T) {
	m := NewMover(newStuckDevice(t), testOptions())

	assert.ErrorIs(t, m.StartDrag(context.Background()), ErrButtonsUnsupported)
	assert.ErrorIs(t, m.StopDrag(context.Background()), ErrButtonsUnsupported)
}

func TestRefresh(t *testing.T) {
	dev := newSim(t, plusGraph(t, nil))
	require.NoError(t, dev.Place(4, types.Point{X: 12.4, Y: 80.6}))
	m := NewMover(dev, testOptions())

	st, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, State{DisplayID: 4, Position: types.Pixel{X: 12, Y: 81}}, st)
}
