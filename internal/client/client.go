package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/displayhop/internal/models"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

const (
	DefaultSocketPath = "/tmp/displayhop.sock"
	DefaultTimeout    = 30 * time.Second
)

// Client talks to a cursor agent
type Client struct {
	conn *Connection
}

// NewClient creates a new agent client
func NewClient(socketPath string, timeout time.Duration) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		conn: NewConnection(socketPath, timeout),
	}
}

// Connect establishes connection to the agent
func (c *Client) Connect() error {
	return c.conn.Connect()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// CallMethod sends a generic RPC request with the given method and parameters.
// Agent-side failures are returned as *models.ErrorInfo.
func (c *Client) CallMethod(ctx context.Context, method string, params map[string]interface{}) (map[string]interface{}, error) {
	req := models.NewRequest(uuid.New().String(), method, params)
	resp, err := c.conn.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w", method, resp.Err())
	}
	return resp.Result, nil
}

// Ping sends a ping request to test connectivity
func (c *Client) Ping(ctx context.Context) (map[string]interface{}, error) {
	return c.CallMethod(ctx, models.MethodPing, nil)
}

// CursorDisplay returns the display showing the cursor, false if none
func (c *Client) CursorDisplay(ctx context.Context) (types.DisplayID, bool, error) {
	result, err := c.CallMethod(ctx, models.MethodCursorDisplay, nil)
	if err != nil {
		return 0, false, err
	}
	if !models.BoolParam(result, "found") {
		return 0, false, nil
	}
	id, err := models.IntParam(result, "displayId")
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s result: %w", models.MethodCursorDisplay, err)
	}
	return types.DisplayID(id), true, nil
}

// CursorPosition returns the cursor position in pixels local to id
func (c *Client) CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error) {
	result, err := c.CallMethod(ctx, models.MethodCursorPosition, map[string]interface{}{
		"displayId": int(id),
	})
	if err != nil {
		return types.Point{}, false, err
	}
	if !models.BoolParam(result, "found") {
		return types.Point{}, false, nil
	}
	x, err := models.FloatParam(result, "x")
	if err != nil {
		return types.Point{}, false, fmt.Errorf("invalid %s result: %w", models.MethodCursorPosition, err)
	}
	y, err := models.FloatParam(result, "y")
	if err != nil {
		return types.Point{}, false, fmt.Errorf("invalid %s result: %w", models.MethodCursorPosition, err)
	}
	return types.Point{X: x, Y: y}, true, nil
}

// Move injects one relative movement
func (c *Client) Move(ctx context.Context, dx, dy int) error {
	_, err := c.CallMethod(ctx, models.MethodCursorMove, map[string]interface{}{
		"dx": dx,
		"dy": dy,
	})
	return err
}

// Sync waits for the agent to process pending input
func (c *Client) Sync(ctx context.Context) error {
	_, err := c.CallMethod(ctx, models.MethodInputSync, nil)
	return err
}

// PressButton presses the primary button
func (c *Client) PressButton(ctx context.Context) error {
	_, err := c.CallMethod(ctx, models.MethodButtonPress, nil)
	return err
}

// ReleaseButton releases the primary button
func (c *Client) ReleaseButton(ctx context.Context) error {
	_, err := c.CallMethod(ctx, models.MethodButtonRelease, nil)
	return err
}

// Topology fetches the agent's display topology
func (c *Client) Topology(ctx context.Context) (*topology.Graph, error) {
	result, err := c.CallMethod(ctx, models.MethodTopologyGet, nil)
	if err != nil {
		return nil, err
	}
	g, err := models.ParseTopology(result)
	if err != nil {
		return nil, fmt.Errorf("invalid %s result: %w", models.MethodTopologyGet, err)
	}
	return g, nil
}
