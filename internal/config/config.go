package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/displayhop/internal/cursor"
	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

const (
	DefaultConfigDir  = ".config/displayhop"
	DefaultConfigFile = "config.yaml"
)

// ErrNoConfig is returned by LoadConfig when no path is given and no file
// exists at the default location
var ErrNoConfig = errors.New("no config file found")

// LoadConfig loads configuration from the specified path or default location
// If path is empty, uses ~/.config/displayhop/config.yaml, then config.json
// Supports both .yaml and .json extensions
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		// Try YAML first, then JSON
		yamlPath := filepath.Join(home, DefaultConfigDir, "config.yaml")
		jsonPath := filepath.Join(home, DefaultConfigDir, "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else {
			return nil, fmt.Errorf("%w at %s or %s", ErrNoConfig, yamlPath, jsonPath)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes loads configuration from raw bytes
// format should be "yaml" or "json"
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	var cfg Config

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// DefaultConfig returns a simulator setup with four displays in a plus shape:
//
//	[4] - [2] - [3]
//	       |
//	      [1]
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendSim,
		Primary: 1,
		Displays: []DisplayConfig{
			{ID: 1, Name: "bottom", Bounds: types.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}, Density: 160},
			{ID: 2, Name: "center", Bounds: types.Rect{Left: 0, Top: -100, Right: 100, Bottom: 0}, Density: 160},
			{ID: 3, Name: "right", Bounds: types.Rect{Left: 100, Top: -110, Right: 200, Bottom: -10}, Density: 160},
			{ID: 4, Name: "left", Bounds: types.Rect{Left: -100, Top: -110, Right: 0, Bottom: -10}, Density: 160},
		},
	}
}

// BackendName returns the configured backend, sim when unset
func (c *Config) BackendName() string {
	if c.Backend == "" {
		return BackendSim
	}
	return c.Backend
}

// MoverOptions converts settings into cursor movement options.
// Unset values fall back to the cursor package defaults.
func (c *Config) MoverOptions() cursor.Options {
	s := c.Settings
	opts := cursor.Options{
		CrossOffsetDp:       s.CrossOffsetDp,
		MaxSteps:            s.MaxSteps,
		MinPxPerStep:        s.MinPxPerStep,
		CrossingTimeout:     s.CrossingTimeout.Std(),
		SettleTimeout:       s.SettleTimeout.Std(),
		PollInterval:        s.PollInterval.Std(),
		TolerancePx:         s.TolerancePx,
		StrictFinalPosition: s.StrictFinalPosition,
	}
	if s.InputDelay != nil {
		opts.InputDelay = s.InputDelay.Std()
		if opts.InputDelay == 0 {
			opts.InputDelay = -1
		}
	}
	return opts
}

// Graph builds the display topology. Without explicit edges, adjacency is
// derived from the display bounds.
func (c *Config) Graph() (*topology.Graph, error) {
	displays := make([]topology.Display, len(c.Displays))
	for i, dc := range c.Displays {
		displays[i] = dc.ToDisplay()
	}

	if len(c.Edges) == 0 {
		return topology.FromBounds(types.DisplayID(c.Primary), displays)
	}

	g := topology.NewGraph(types.DisplayID(c.Primary))
	for _, d := range displays {
		if err := g.AddDisplay(d); err != nil {
			return nil, err
		}
	}
	for i, ec := range c.Edges {
		side, ok := types.ParseSide(ec.Side)
		if !ok {
			return nil, fmt.Errorf("edge %d: invalid side %q", i, ec.Side)
		}
		if err := g.AddEdge(types.DisplayID(ec.From), types.DisplayID(ec.To), side); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return g, nil
}

// ToDisplay converts DisplayConfig to topology.Display
func (dc DisplayConfig) ToDisplay() topology.Display {
	return topology.Display{
		ID:      types.DisplayID(dc.ID),
		Name:    dc.Name,
		Bounds:  dc.Bounds,
		Density: dc.Density,
	}
}
