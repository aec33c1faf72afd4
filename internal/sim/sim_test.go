package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// sideBySide is [1][2] with 2 at double density
func sideBySide(t *testing.T) *Device {
	t.Helper()
	g, err := topology.FromBounds(1, []topology.Display{
		{ID: 1, Bounds: types.Rect{Right: 100, Bottom: 100}, Density: 160},
		{ID: 2, Bounds: types.Rect{Left: 100, Right: 200, Bottom: 100}, Density: 320},
	})
	require.NoError(t, err)
	dev, err := New(g)
	require.NoError(t, err)
	return dev
}

func TestNew_CentersOnPrimary(t *testing.T) {
	dev := sideBySide(t)

	id, pos := dev.Global()
	assert.Equal(t, types.DisplayID(1), id)
	assert.Equal(t, types.Point{X: 50, Y: 50}, pos)
}

func TestNew_MissingPrimary(t *testing.T) {
	_, err := New(topology.NewGraph(7))
	assert.Error(t, err)
}

func TestSendRelativeMove_WithinDisplay(t *testing.T) {
	dev := sideBySide(t)
	ctx := context.Background()

	require.NoError(t, dev.SendRelativeMove(ctx, 50, -50))

	id, ok, err := dev.CursorDisplayID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.DisplayID(1), id, "closed bounds keep the cursor on its display")

	pos, ok, err := dev.CursorPosition(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.Point{X: 100, Y: 0}, pos)
}

func TestSendRelativeMove_CrossesAndUsesNewDensity(t *testing.T) {
	dev := sideBySide(t)
	ctx := context.Background()

	require.NoError(t, dev.SendRelativeMove(ctx, 51, 0))
	id, pos := dev.Global()
	assert.Equal(t, types.DisplayID(2), id)
	assert.Equal(t, types.Point{X: 101, Y: 50}, pos)

	// 2 px on a 320 density display is 1 DP
	require.NoError(t, dev.SendRelativeMove(ctx, 2, 0))
	_, pos = dev.Global()
	assert.Equal(t, types.Point{X: 102, Y: 50}, pos)

	_, local := dev.Local()
	assert.Equal(t, types.Point{X: 4, Y: 100}, local)

	_, ok, err := dev.CursorPosition(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "cursor is no longer on display 1")
}

func TestSendRelativeMove_ClampsAtOuterEdge(t *testing.T) {
	dev := sideBySide(t)

	require.NoError(t, dev.SendRelativeMove(context.Background(), -500, 500))

	id, pos := dev.Global()
	assert.Equal(t, types.DisplayID(1), id)
	assert.Equal(t, types.Point{X: 0, Y: 100}, pos)
}

func TestBlock(t *testing.T) {
	dev := sideBySide(t)
	dev.Block(1, 2)

	require.NoError(t, dev.SendRelativeMove(context.Background(), 60, 0))

	id, pos := dev.Global()
	assert.Equal(t, types.DisplayID(1), id)
	assert.Equal(t, types.Point{X: 100, Y: 50}, pos)
}

func TestCrossingLag(t *testing.T) {
	dev := sideBySide(t)
	dev.SetCrossingLag(2)
	ctx := context.Background()

	require.NoError(t, dev.SendRelativeMove(ctx, 60, 0))

	var seen []types.DisplayID
	for i := 0; i < 4; i++ {
		id, ok, err := dev.CursorDisplayID(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		seen = append(seen, id)
	}
	assert.Equal(t, []types.DisplayID{1, 1, 2, 2}, seen)
}

func TestHideAndPlace(t *testing.T) {
	dev := sideBySide(t)
	ctx := context.Background()
	dev.Hide()

	_, ok, err := dev.CursorDisplayID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, dev.SendRelativeMove(ctx, 1, 1))

	require.NoError(t, dev.Place(2, types.Point{X: 40, Y: 60}))
	id, pos := dev.Global()
	assert.Equal(t, types.DisplayID(2), id)
	assert.Equal(t, types.Point{X: 120, Y: 30}, pos)

	assert.Error(t, dev.Place(9, types.Point{}))
}

func TestButtons(t *testing.T) {
	dev := sideBySide(t)
	ctx := context.Background()

	require.NoError(t, dev.PressButton(ctx))
	assert.Error(t, dev.PressButton(ctx))
	assert.True(t, dev.ButtonDown())

	require.NoError(t, dev.SendRelativeMove(ctx, 10, 0))
	require.NoError(t, dev.ReleaseButton(ctx))
	assert.Error(t, dev.ReleaseButton(ctx))

	assert.Equal(t, []ButtonEvent{
		{Pressed: true, At: types.Point{X: 50, Y: 50}},
		{Pressed: false, At: types.Point{X: 60, Y: 50}},
	}, dev.Buttons())
}

func TestRecordsMovesAndSyncs(t *testing.T) {
	dev := sideBySide(t)
	ctx := context.Background()

	require.NoError(t, dev.SendRelativeMove(ctx, 1, 2))
	require.NoError(t, dev.SendRelativeMove(ctx, 0, 0))
	require.NoError(t, dev.SyncInput(ctx))

	assert.Equal(t, []types.Delta{{DX: 1, DY: 2}, {}}, dev.Moves())
	assert.Equal(t, 1, dev.Syncs())
}
