package config

import "github.com/yourusername/displayhop/internal/types"

// Backends a Config can select
const (
	BackendSim    = "sim"
	BackendRemote = "remote"
	BackendX11    = "x11"
)

// Config is the root configuration structure
type Config struct {
	Settings Settings        `yaml:"settings" json:"settings"`
	Backend  string          `yaml:"backend" json:"backend"`
	Socket   string          `yaml:"socket,omitempty" json:"socket,omitempty"`
	Primary  int             `yaml:"primary" json:"primary"`
	Displays []DisplayConfig `yaml:"displays" json:"displays"`
	Edges    []EdgeConfig    `yaml:"edges,omitempty" json:"edges,omitempty"` // empty: derived from bounds
}

// Settings tunes cursor movement
type Settings struct {
	CrossOffsetDp       float64   `yaml:"crossOffsetDp" json:"crossOffsetDp"`
	MaxSteps            int       `yaml:"maxSteps" json:"maxSteps"`
	MinPxPerStep        int       `yaml:"minPxPerStep" json:"minPxPerStep"`
	InputDelay          *Duration `yaml:"inputDelay,omitempty" json:"inputDelay,omitempty"` // 0 disables pacing
	CrossingTimeout     Duration  `yaml:"crossingTimeout" json:"crossingTimeout"`
	SettleTimeout       Duration  `yaml:"settleTimeout" json:"settleTimeout"`
	PollInterval        Duration  `yaml:"pollInterval" json:"pollInterval"`
	TolerancePx         int       `yaml:"tolerancePx" json:"tolerancePx"`
	StrictFinalPosition bool      `yaml:"strictFinalPosition" json:"strictFinalPosition"`
}

// DisplayConfig describes one display in global DP
type DisplayConfig struct {
	ID      int        `yaml:"id" json:"id"`
	Name    string     `yaml:"name,omitempty" json:"name,omitempty"`
	Bounds  types.Rect `yaml:"bounds" json:"bounds"`
	Density int        `yaml:"density" json:"density"`
}

// EdgeConfig is an explicit directed adjacency
type EdgeConfig struct {
	From int    `yaml:"from" json:"from"`
	To   int    `yaml:"to" json:"to"`
	Side string `yaml:"side" json:"side"` // left, right, top or bottom
}
