package cursor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/displayhop/internal/crossing"
	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
	"github.com/yourusername/displayhop/internal/wait"
)

const (
	DefaultMaxSteps        = 20
	DefaultMinPxPerStep    = 1
	DefaultInputDelay      = 5 * time.Millisecond
	DefaultCrossingTimeout = 10 * time.Second
	DefaultSettleTimeout   = time.Second
	DefaultPollInterval    = 50 * time.Millisecond
	DefaultTolerancePx     = 1
)

// Options tunes movement. Zero values fall back to the defaults, except
// InputDelay where a negative value disables pacing.
type Options struct {
	CrossOffsetDp       float64
	MaxSteps            int
	MinPxPerStep        int
	InputDelay          time.Duration
	CrossingTimeout     time.Duration
	SettleTimeout       time.Duration // wait for the final position, after the last move
	PollInterval        time.Duration
	TolerancePx         int
	StrictFinalPosition bool
}

// DefaultOptions returns the standard movement options
func DefaultOptions() Options {
	return Options{
		CrossOffsetDp:   crossing.DefaultOffsetDp,
		MaxSteps:        DefaultMaxSteps,
		MinPxPerStep:    DefaultMinPxPerStep,
		InputDelay:      DefaultInputDelay,
		CrossingTimeout: DefaultCrossingTimeout,
		SettleTimeout:   DefaultSettleTimeout,
		PollInterval:    DefaultPollInterval,
		TolerancePx:     DefaultTolerancePx,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CrossOffsetDp == 0 {
		o.CrossOffsetDp = d.CrossOffsetDp
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MinPxPerStep <= 0 {
		o.MinPxPerStep = d.MinPxPerStep
	}
	if o.InputDelay == 0 {
		o.InputDelay = d.InputDelay
	}
	if o.CrossingTimeout <= 0 {
		o.CrossingTimeout = d.CrossingTimeout
	}
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = d.SettleTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.TolerancePx <= 0 {
		o.TolerancePx = d.TolerancePx
	}
	return o
}

// Mover drives a Device to arbitrary positions across displays.
// A Mover is not safe for concurrent use; each move runs to completion on the
// calling goroutine.
type Mover struct {
	dev   Device
	opts  Options
	state State
	sleep func(time.Duration)
}

// NewMover creates a mover for dev
func NewMover(dev Device, opts Options) *Mover {
	return &Mover{
		dev:   dev,
		opts:  opts.withDefaults(),
		sleep: time.Sleep,
	}
}

// Options returns the effective options
func (m *Mover) Options() Options {
	return m.opts
}

// State returns the last tracked cursor location
func (m *Mover) State() State {
	return m.state
}

// Refresh re-reads the cursor location from the device
func (m *Mover) Refresh(ctx context.Context) (State, error) {
	id, err := m.cursorDisplayID(ctx)
	if err != nil {
		return m.state, err
	}
	pos, err := m.cursorPosition(ctx, id)
	if err != nil {
		return m.state, err
	}
	m.state = State{DisplayID: id, Position: pos.Round()}
	return m.state, nil
}

// MoveTo moves the cursor to (x, y) device pixels on the target display,
// hopping across intermediate displays when the cursor is elsewhere.
//
// The device only accepts integer deltas, so after the float conversions the
// final position may be off by up to TolerancePx. A miss beyond that is only
// logged unless StrictFinalPosition is set.
func (m *Mover) MoveTo(ctx context.Context, target types.DisplayID, x, y int) error {
	current, err := m.cursorDisplayID(ctx)
	if err != nil {
		return err
	}

	if current != target {
		if err := m.moveToDisplay(ctx, current, target); err != nil {
			return err
		}
	}

	pos, err := m.cursorPosition(ctx, target)
	if err != nil {
		return err
	}
	m.state = State{DisplayID: target, Position: pos.Round()}

	want := types.Pixel{X: x, Y: y}
	if err := m.performSteppedMove(ctx, want.Sub(m.state.Position)); err != nil {
		return err
	}

	var last types.Pixel
	err = wait.Until(ctx, m.opts.SettleTimeout, m.opts.PollInterval, func(ctx context.Context) (bool, error) {
		p, ok, err := m.dev.CursorPosition(ctx, target)
		if err != nil || !ok {
			return false, err
		}
		last = p.Round()
		d := last.Sub(want)
		return abs(d.DX) <= m.opts.TolerancePx && abs(d.DY) <= m.opts.TolerancePx, nil
	})
	if err == nil {
		m.state.Position = last
		logging.Debug().
			Int("display", int(target)).
			Int("x", x).
			Int("y", y).
			Msg("cursor moved")
		return nil
	}
	if !errors.Is(err, wait.ErrTimeout) {
		return err
	}

	logging.Warn().
		Int("display", int(target)).
		Int("want_x", x).
		Int("want_y", y).
		Int("got_x", last.X).
		Int("got_y", last.Y).
		Int("tolerance", m.opts.TolerancePx).
		Msg("cursor settled outside tolerance")
	if m.opts.StrictFinalPosition {
		return fmt.Errorf("%w: at (%d,%d) on display %d, want (%d,%d)",
			ErrFinalPositionTolerance, last.X, last.Y, target, x, y)
	}
	return nil
}

// MoveByDelta sends a single relative move of (dx, dy) pixels. Unlike MoveTo
// it does not check where the cursor lands; the tracked state is re-read
// afterwards and left as is when the cursor is on no display.
func (m *Mover) MoveByDelta(ctx context.Context, dx, dy int) error {
	if err := m.moveInternal(ctx, types.Delta{DX: dx, DY: dy}); err != nil {
		return err
	}
	if _, err := m.Refresh(ctx); err != nil && !errors.Is(err, ErrNoCursorFound) {
		return err
	}
	return nil
}

// Center moves the cursor to the center of a display
func (m *Mover) Center(ctx context.Context, id types.DisplayID) error {
	g, err := m.dev.Topology(ctx)
	if err != nil {
		return fmt.Errorf("failed to get topology: %w", err)
	}
	d, ok := g.Display(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDisplay, id)
	}
	widthPx := int(types.DpToPx(d.Bounds.Width(), d.Density))
	heightPx := int(types.DpToPx(d.Bounds.Height(), d.Density))
	return m.MoveTo(ctx, id, widthPx/2, heightPx/2)
}

// Reset centers the cursor on the primary display
func (m *Mover) Reset(ctx context.Context) error {
	g, err := m.dev.Topology(ctx)
	if err != nil {
		return fmt.Errorf("failed to get topology: %w", err)
	}
	return m.Center(ctx, g.Primary)
}

func (m *Mover) moveToDisplay(ctx context.Context, start, target types.DisplayID) error {
	g, err := m.dev.Topology(ctx)
	if err != nil {
		return fmt.Errorf("failed to get topology: %w", err)
	}

	path, err := topology.FindPath(start, target, g)
	if err != nil {
		logging.Error().Err(err).Int("from", int(start)).Int("to", int(target)).Msg("no path between displays")
		return err
	}
	logging.Debug().
		Int("from", int(start)).
		Int("to", int(target)).
		Int("hops", len(path)).
		Msg("moving across displays")

	current := start
	for _, hop := range path {
		if err := m.crossHop(ctx, g, current, hop); err != nil {
			return err
		}
		current = hop.DisplayID
	}
	return nil
}

func (m *Mover) crossHop(ctx context.Context, g *topology.Graph, current types.DisplayID, hop topology.Hop) error {
	from, ok := g.Display(current)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDisplay, current)
	}
	to, ok := g.Display(hop.DisplayID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDisplay, hop.DisplayID)
	}

	plan, err := PlanHop(from, to, hop.Side, m.opts.CrossOffsetDp)
	if err != nil {
		return &CrossingError{From: current, To: hop.DisplayID, Side: hop.Side, Err: err}
	}

	pos, err := m.cursorPosition(ctx, current)
	if err != nil {
		return err
	}
	m.state = State{DisplayID: current, Position: pos.Round()}

	// Move to the center of the shared edge, then nudge across it
	toBorder := plan.EdgePx.Sub(pos).Round()
	if err := m.performSteppedMove(ctx, toBorder); err != nil {
		return err
	}
	if err := m.performSteppedMove(ctx, plan.Nudge.Round()); err != nil {
		return err
	}

	err = wait.Until(ctx, m.opts.CrossingTimeout, m.opts.PollInterval, func(ctx context.Context) (bool, error) {
		id, ok, err := m.dev.CursorDisplayID(ctx)
		if err != nil {
			return false, err
		}
		return ok && id == hop.DisplayID, nil
	})
	if err != nil {
		logging.Error().
			Err(err).
			Int("from", int(current)).
			Int("to", int(hop.DisplayID)).
			Str("side", hop.Side.String()).
			Msg("cursor did not cross display boundary")
		if errors.Is(err, wait.ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrCrossingTimeout, err)
		}
		return &CrossingError{From: current, To: hop.DisplayID, Side: hop.Side, Err: err}
	}
	m.state.DisplayID = hop.DisplayID

	// Changing display reconfigures the input device and may jam the queue;
	// position reads are only reliable after pending events are processed.
	if err := m.dev.SyncInput(ctx); err != nil {
		return fmt.Errorf("failed to sync input: %w", err)
	}

	logging.Debug().
		Int("from", int(current)).
		Int("to", int(hop.DisplayID)).
		Str("side", hop.Side.String()).
		Float64("edge_x", plan.EdgePx.X).
		Float64("edge_y", plan.EdgePx.Y).
		Msg("crossed display boundary")
	return nil
}

// performSteppedMove splits delta into bounded steps, see SplitDelta
func (m *Mover) performSteppedMove(ctx context.Context, delta types.Delta) error {
	for _, step := range SplitDelta(delta, m.opts.MaxSteps, m.opts.MinPxPerStep) {
		if err := m.moveInternal(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mover) moveInternal(ctx context.Context, delta types.Delta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dev.SendRelativeMove(ctx, delta.DX, delta.DY); err != nil {
		return fmt.Errorf("failed to send relative move (%d,%d): %w", delta.DX, delta.DY, err)
	}
	m.state.Position = m.state.Position.Add(delta)
	m.pause()
	return nil
}

func (m *Mover) pause() {
	if m.opts.InputDelay > 0 {
		m.sleep(m.opts.InputDelay)
	}
}

func (m *Mover) cursorDisplayID(ctx context.Context) (types.DisplayID, error) {
	id, ok, err := m.dev.CursorDisplayID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query cursor display: %w", err)
	}
	if !ok {
		return 0, ErrNoCursorFound
	}
	return id, nil
}

func (m *Mover) cursorPosition(ctx context.Context, id types.DisplayID) (types.Point, error) {
	p, ok, err := m.dev.CursorPosition(ctx, id)
	if err != nil {
		return types.Point{}, fmt.Errorf("failed to query cursor position: %w", err)
	}
	if !ok {
		return types.Point{}, fmt.Errorf("%w: cursor is not on display %d", ErrNoCursorFound, id)
	}
	return p, nil
}
