package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/displayhop/internal/client"
	"github.com/yourusername/displayhop/internal/config"
	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/remote"
	"github.com/yourusername/displayhop/internal/sim"
	"github.com/yourusername/displayhop/internal/state"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/x11"
)

// session is an open backend plus the topology it reported
type session struct {
	cfg   *config.Config
	dev   cursor.Device
	graph *topology.Graph
	close func() error
}

// loadConfig reads the config file and applies command line overrides.
// Without a config file the built-in simulator layout is used.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if errors.Is(err, config.ErrNoConfig) && configPath == "" {
		logging.Debug().Msg("no config file, using default simulator layout")
		cfg, err = config.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if backendName != "" {
		cfg.Backend = backendName
	}
	if socketPath != "" {
		cfg.Socket = socketPath
	}
	if cfg.Socket == "" {
		cfg.Socket = client.DefaultSocketPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openSession connects to the configured backend
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backend := cfg.BackendName()
	logging.Debug().Str("backend", backend).Msg("opening session")

	switch backend {
	case config.BackendSim:
		return openSim(cfg)
	case config.BackendRemote:
		dev, err := remote.Dial(ctx, cfg.Socket, timeout)
		if err != nil {
			return nil, err
		}
		return finishSession(ctx, cfg, dev, dev.Close)
	case config.BackendX11:
		conn, err := x11.NewConnection()
		if err != nil {
			return nil, err
		}
		dev, err := x11.NewDevice(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return finishSession(ctx, cfg, dev, func() error {
			conn.Close()
			return nil
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func finishSession(ctx context.Context, cfg *config.Config, dev cursor.Device, closeFn func() error) (*session, error) {
	g, err := dev.Topology(ctx)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to get topology: %w", err)
	}
	return &session{cfg: cfg, dev: dev, graph: g, close: closeFn}, nil
}

// openSim builds the simulator from the configured displays and restores the
// cursor saved by the previous invocation
func openSim(cfg *config.Config) (*session, error) {
	g, err := cfg.Graph()
	if err != nil {
		return nil, err
	}
	dev, err := sim.New(g)
	if err != nil {
		return nil, err
	}

	st, err := state.LoadState()
	if err != nil {
		logging.Warn().Err(err).Msg("ignoring unreadable simulator state")
		st = state.NewSimState()
	}
	if st.Restore(dev, g) {
		id, pos := dev.Local()
		logging.Debug().Int("display", int(id)).Float64("x", pos.X).Float64("y", pos.Y).Msg("restored cursor")
	}

	closeFn := func() error {
		st.Capture(dev, g)
		if err := st.Save(); err != nil {
			return fmt.Errorf("failed to save simulator state: %w", err)
		}
		return nil
	}
	return &session{cfg: cfg, dev: dev, graph: g, close: closeFn}, nil
}

// withSession runs fn against an open backend and closes it afterwards
func withSession(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		printError(err.Error())
		return err
	}

	runErr := fn(s)
	if err := s.close(); err != nil {
		logging.Error().Err(err).Msg("failed to close session")
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func (s *session) mover() *cursor.Mover {
	return cursor.NewMover(s.dev, s.cfg.MoverOptions())
}
