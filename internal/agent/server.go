// Package agent serves a cursor device over a Unix domain socket using
// newline-delimited JSON envelopes.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/models"
	"github.com/yourusername/displayhop/internal/types"
)

// maxLineSize bounds a single request line
const maxLineSize = 1 << 20

// Server exposes a cursor.Device to remote clients
type Server struct {
	socketPath string
	dev        cursor.Device
	startTime  time.Time

	listener     net.Listener
	conns        map[net.Conn]struct{}
	shuttingDown bool
	mu           sync.Mutex
	wg           sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server for dev listening on socketPath
func NewServer(socketPath string, dev cursor.Device) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		dev:        dev,
		conns:      make(map[net.Conn]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SocketPath returns the path the server listens on
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.startTime = time.Now()
	s.mu.Unlock()

	logging.Info().Str("socket", s.socketPath).Msg("agent listening")

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Serve starts the server and blocks until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Close()
}

// Close stops accepting, drops open connections and waits for handlers
func (s *Server) Close() error {
	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		return nil
	}
	s.shuttingDown = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	os.Remove(s.socketPath)
	logging.Info().Str("socket", s.socketPath).Msg("agent stopped")
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.shuttingDown
			s.mu.Unlock()
			if closing {
				return
			}
			logging.Error().Err(err).Msg("accept failed")
			continue
		}

		s.mu.Lock()
		if s.shuttingDown {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConnection(conn)
	}
}

// handleConnection answers requests on conn until the client hangs up
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(line)
		data, err := resp.MarshalLine()
		if err != nil {
			logging.Error().Err(err).Msg("failed to marshal response")
			return
		}
		if _, err := writer.Write(data); err != nil {
			logging.Debug().Err(err).Msg("failed to write response")
			return
		}
		if err := writer.Flush(); err != nil {
			logging.Debug().Err(err).Msg("failed to flush response")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Debug().Err(err).Msg("connection read failed")
	}
}

func (s *Server) handleLine(line []byte) *models.MessageEnvelope {
	env, err := models.ParseEnvelope(line)
	if err != nil {
		return models.NewErrorResponse("", models.CodeParseError, err.Error())
	}
	if env.Type != "request" {
		return models.NewErrorResponse("", models.CodeInvalidRequest, fmt.Sprintf("expected request, got %s", env.Type))
	}

	req := env.Request
	result, err := s.handleRequest(s.ctx, req)
	if err != nil {
		var rpcErr *models.ErrorInfo
		if !errors.As(err, &rpcErr) {
			rpcErr = &models.ErrorInfo{Code: models.CodeInternalError, Message: err.Error()}
		}
		logging.Debug().
			Str("id", req.ID).
			Str("method", req.Method).
			Int("code", rpcErr.Code).
			Str("error", rpcErr.Message).
			Msg("request failed")
		return models.NewErrorResponse(req.ID, rpcErr.Code, rpcErr.Message)
	}
	return models.NewResponse(req.ID, result)
}

// handleRequest dispatches one request to the device
func (s *Server) handleRequest(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
	switch req.Method {
	case models.MethodPing:
		return s.handlePing(), nil
	case models.MethodCursorDisplay:
		return s.handleCursorDisplay(ctx)
	case models.MethodCursorPosition:
		return s.handleCursorPosition(ctx, req.Params)
	case models.MethodCursorMove:
		return s.handleCursorMove(ctx, req.Params)
	case models.MethodInputSync:
		return nil, s.dev.SyncInput(ctx)
	case models.MethodButtonPress:
		return s.handleButton(ctx, true)
	case models.MethodButtonRelease:
		return s.handleButton(ctx, false)
	case models.MethodTopologyGet:
		g, err := s.dev.Topology(ctx)
		if err != nil {
			return nil, err
		}
		return models.TopologyResult(g), nil
	default:
		return nil, &models.ErrorInfo{
			Code:    models.CodeMethodNotFound,
			Message: fmt.Sprintf("unknown method: %s", req.Method),
		}
	}
}

func (s *Server) handlePing() map[string]interface{} {
	_, buttons := s.dev.(cursor.ButtonDevice)
	s.mu.Lock()
	uptime := time.Since(s.startTime)
	s.mu.Unlock()
	return map[string]interface{}{
		"pong":          true,
		"buttons":       buttons,
		"uptimeSeconds": int64(uptime.Seconds()),
	}
}

func (s *Server) handleCursorDisplay(ctx context.Context) (map[string]interface{}, error) {
	id, ok, err := s.dev.CursorDisplayID(ctx)
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{"found": ok}
	if ok {
		result["displayId"] = int(id)
	}
	return result, nil
}

func (s *Server) handleCursorPosition(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	id, err := models.IntParam(params, "displayId")
	if err != nil {
		return nil, invalidParams(err)
	}
	p, ok, err := s.dev.CursorPosition(ctx, types.DisplayID(id))
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{"found": ok}
	if ok {
		result["x"] = p.X
		result["y"] = p.Y
	}
	return result, nil
}

func (s *Server) handleCursorMove(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	dx, err := models.IntParam(params, "dx")
	if err != nil {
		return nil, invalidParams(err)
	}
	dy, err := models.IntParam(params, "dy")
	if err != nil {
		return nil, invalidParams(err)
	}
	return nil, s.dev.SendRelativeMove(ctx, dx, dy)
}

func (s *Server) handleButton(ctx context.Context, press bool) (map[string]interface{}, error) {
	bd, ok := s.dev.(cursor.ButtonDevice)
	if !ok {
		return nil, &models.ErrorInfo{Code: models.CodeUnsupported, Message: cursor.ErrButtonsUnsupported.Error()}
	}
	if press {
		return nil, bd.PressButton(ctx)
	}
	return nil, bd.ReleaseButton(ctx)
}

func invalidParams(err error) error {
	return &models.ErrorInfo{Code: models.CodeInvalidParams, Message: err.Error()}
}
