package agent

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/models"
	"github.com/yourusername/displayhop/internal/sim"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

// socketPath returns a short path; t.TempDir can exceed the sun_path limit
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "hop")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "agent.sock")
}

func twoDisplays(t *testing.T) *topology.Graph {
	t.Helper()
	g, err := topology.FromBounds(1, []topology.Display{
		{ID: 1, Name: "left", Bounds: types.Rect{Right: 100, Bottom: 100}, Density: 160},
		{ID: 2, Name: "right", Bounds: types.Rect{Left: 100, Right: 200, Bottom: 100}, Density: 320},
	})
	require.NoError(t, err)
	return g
}

func startServer(t *testing.T, dev cursor.Device) *Server {
	t.Helper()
	srv := NewServer(socketPath(t), dev)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Close() })
	return srv
}

// rawConn sends hand-written lines to the server
type rawConn struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dial(t *testing.T, srv *Server) *rawConn {
	t.Helper()
	conn, err := net.Dial("unix", srv.SocketPath())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	return &rawConn{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (c *rawConn) send(line string) *models.Response {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
	data, err := c.reader.ReadBytes('\n')
	require.NoError(c.t, err)
	env, err := models.ParseEnvelope(data)
	require.NoError(c.t, err)
	require.Equal(c.t, "response", env.Type)
	return env.Response
}

func (c *rawConn) call(id, method string, params map[string]interface{}) *models.Response {
	c.t.Helper()
	data, err := models.NewRequest(id, method, params).MarshalLine()
	require.NoError(c.t, err)
	return c.send(string(data[:len(data)-1]))
}

func TestServer_CursorMethods(t *testing.T) {
	dev, err := sim.New(twoDisplays(t))
	require.NoError(t, err)
	c := dial(t, startServer(t, dev))

	resp := c.call("1", models.MethodCursorDisplay, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, true, resp.Result["found"])
	assert.Equal(t, float64(1), resp.Result["displayId"])

	resp = c.call("2", models.MethodCursorMove, map[string]interface{}{"dx": 60, "dy": 0})
	require.False(t, resp.IsError(), resp.GetError())

	resp = c.call("3", models.MethodCursorPosition, map[string]interface{}{"displayId": 2})
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, true, resp.Result["found"])
	assert.Equal(t, float64(20), resp.Result["x"])
	assert.Equal(t, float64(100), resp.Result["y"])

	resp = c.call("4", models.MethodCursorPosition, map[string]interface{}{"displayId": 1})
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, false, resp.Result["found"])

	resp = c.call("5", models.MethodInputSync, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, 1, dev.Syncs())

	resp = c.call("6", models.MethodButtonPress, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.True(t, dev.ButtonDown())
	resp = c.call("7", models.MethodButtonRelease, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.False(t, dev.ButtonDown())
}

func TestServer_Topology(t *testing.T) {
	g := twoDisplays(t)
	dev, err := sim.New(g)
	require.NoError(t, err)
	c := dial(t, startServer(t, dev))

	resp := c.call("t", models.MethodTopologyGet, nil)
	require.False(t, resp.IsError(), resp.GetError())

	parsed, err := models.ParseTopology(resp.Result)
	require.NoError(t, err)
	assert.Equal(t, g.Primary, parsed.Primary)
	assert.Equal(t, g.Displays(), parsed.Displays())
	assert.Equal(t, g.Edges(), parsed.Edges())
}

func TestServer_Errors(t *testing.T) {
	dev, err := sim.New(twoDisplays(t))
	require.NoError(t, err)
	c := dial(t, startServer(t, dev))

	tests := []struct {
		name string
		line string
		code int
	}{
		{"malformed json", `{"type":`, models.CodeParseError},
		{"response sent as request", `{"type":"response","response":{"id":"x"}}`, models.CodeInvalidRequest},
		{"unknown method", `{"type":"request","request":{"id":"a","method":"cursor.teleport"}}`, models.CodeMethodNotFound},
		{"missing param", `{"type":"request","request":{"id":"b","method":"cursor.move","params":{"dx":1}}}`, models.CodeInvalidParams},
		{"fractional param", `{"type":"request","request":{"id":"c","method":"cursor.move","params":{"dx":1.5,"dy":0}}}`, models.CodeInvalidParams},
		{"device failure", `{"type":"request","request":{"id":"d","method":"button.release"}}`, models.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.send(tt.line)
			require.True(t, resp.IsError())
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	// The connection survives failed requests
	resp := c.call("ok", models.MethodPing, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, true, resp.Result["pong"])
	assert.Equal(t, true, resp.Result["buttons"])
}

// noButtons exposes only the cursor.Device methods of the simulator
type noButtons struct {
	cursor.Device
}

func TestServer_ButtonsUnsupported(t *testing.T) {
	dev, err := sim.New(twoDisplays(t))
	require.NoError(t, err)
	c := dial(t, startServer(t, noButtons{dev}))

	resp := c.call("p", models.MethodButtonPress, nil)
	require.True(t, resp.IsError())
	assert.Equal(t, models.CodeUnsupported, resp.Error.Code)

	resp = c.call("q", models.MethodPing, nil)
	require.False(t, resp.IsError(), resp.GetError())
	assert.Equal(t, false, resp.Result["buttons"])
}

func TestServer_CloseRemovesSocket(t *testing.T) {
	dev, err := sim.New(twoDisplays(t))
	require.NoError(t, err)
	srv := NewServer(socketPath(t), dev)
	require.NoError(t, srv.Start())
	c := dial(t, srv)

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close(), "close is idempotent")

	_, err = os.Stat(srv.SocketPath())
	assert.True(t, os.IsNotExist(err))

	_, err = c.reader.ReadBytes('\n')
	assert.Error(t, err, "open connections are dropped")
}

func TestServer_Serve(t *testing.T) {
	dev, err := sim.New(twoDisplays(t))
	require.NoError(t, err)
	srv := NewServer(socketPath(t), dev)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(srv.SocketPath())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
