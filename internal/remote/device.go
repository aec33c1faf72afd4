// Package remote implements cursor.Device against a cursor agent
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/displayhop/internal/client"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// Device forwards every capability to the agent behind a client
type Device struct {
	client *client.Client
}

// New wraps an existing client
func New(c *client.Client) *Device {
	return &Device{client: c}
}

// Dial connects to the agent at socketPath and checks it answers
func Dial(ctx context.Context, socketPath string, timeout time.Duration) (*Device, error) {
	c := client.NewClient(socketPath, timeout)
	if err := c.Connect(); err != nil {
		return nil, err
	}
	if _, err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("agent did not answer ping: %w", err)
	}
	return New(c), nil
}

// Close closes the underlying connection
func (d *Device) Close() error {
	return d.client.Close()
}

func (d *Device) CursorDisplayID(ctx context.Context) (types.DisplayID, bool, error) {
	return d.client.CursorDisplay(ctx)
}

func (d *Device) CursorPosition(ctx context.Context, id types.DisplayID) (types.Point, bool, error) {
	return d.client.CursorPosition(ctx, id)
}

func (d *Device) SendRelativeMove(ctx context.Context, dx, dy int) error {
	return d.client.Move(ctx, dx, dy)
}

func (d *Device) SyncInput(ctx context.Context) error {
	return d.client.Sync(ctx)
}

func (d *Device) Topology(ctx context.Context) (*topology.Graph, error) {
	return d.client.Topology(ctx)
}

func (d *Device) PressButton(ctx context.Context) error {
	return d.client.PressButton(ctx)
}

func (d *Device) ReleaseButton(ctx context.Context) error {
	return d.client.ReleaseButton(ctx)
}
