package config

import (
	"fmt"

	"github.com/yourusername/displayhop/internal/types"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendSim, BackendRemote, BackendX11:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}

	if err := validateSettings(&c.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	// X11 discovers its own displays
	if c.BackendName() == BackendX11 && len(c.Displays) == 0 {
		return nil
	}
	// Remote takes the topology from the agent
	if c.BackendName() == BackendRemote && len(c.Displays) == 0 {
		return nil
	}

	if len(c.Displays) == 0 {
		return fmt.Errorf("no displays defined")
	}

	displayIDs := make(map[int]bool)
	for i, d := range c.Displays {
		if displayIDs[d.ID] {
			return fmt.Errorf("duplicate display ID: %d", d.ID)
		}
		displayIDs[d.ID] = true

		if err := validateDisplay(&d); err != nil {
			return fmt.Errorf("display %d (index %d): %w", d.ID, i, err)
		}
	}

	if !displayIDs[c.Primary] {
		return fmt.Errorf("primary display %d is not defined", c.Primary)
	}

	type edgeKey struct{ from, to int }
	seen := make(map[edgeKey]bool)
	for i, e := range c.Edges {
		if _, ok := types.ParseSide(e.Side); !ok {
			return fmt.Errorf("edge %d: invalid side: %q", i, e.Side)
		}
		if !displayIDs[e.From] {
			return fmt.Errorf("edge %d: unknown display %d", i, e.From)
		}
		if !displayIDs[e.To] {
			return fmt.Errorf("edge %d: unknown display %d", i, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("edge %d: display %d cannot neighbor itself", i, e.From)
		}
		key := edgeKey{e.From, e.To}
		if seen[key] {
			return fmt.Errorf("edge %d: duplicate edge %d -> %d", i, e.From, e.To)
		}
		seen[key] = true
	}

	return nil
}

func validateDisplay(d *DisplayConfig) error {
	if d.Density <= 0 {
		return fmt.Errorf("density must be positive, got %d", d.Density)
	}
	if d.Bounds.Width() <= 0 || d.Bounds.Height() <= 0 {
		return fmt.Errorf("bounds %s must have positive width and height", d.Bounds)
	}
	return nil
}

func validateSettings(s *Settings) error {
	if s.CrossOffsetDp < 0 {
		return fmt.Errorf("crossOffsetDp cannot be negative")
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("maxSteps cannot be negative")
	}
	if s.MinPxPerStep < 0 {
		return fmt.Errorf("minPxPerStep cannot be negative")
	}
	if s.TolerancePx < 0 {
		return fmt.Errorf("tolerancePx cannot be negative")
	}
	if s.InputDelay != nil && *s.InputDelay < 0 {
		return fmt.Errorf("inputDelay cannot be negative")
	}
	if s.CrossingTimeout < 0 {
		return fmt.Errorf("crossingTimeout cannot be negative")
	}
	if s.SettleTimeout < 0 {
		return fmt.Errorf("settleTimeout cannot be negative")
	}
	if s.PollInterval < 0 {
		return fmt.Errorf("pollInterval cannot be negative")
	}
	return nil
}
