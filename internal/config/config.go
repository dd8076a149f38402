package config

import (
	"fmt"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/layout"
	"github.com/cascadewm/cascade/internal/rules"
)

// Gaps configures the pixel gaps applied at placement time.
type Gaps struct {
	Inner int `yaml:"inner"`
	Outer int `yaml:"outer"`
}

// Layout configures the default placement strategy and its tunables.
type Layout struct {
	// Strategy is "dwindle" or "master_stack".
	Strategy string `yaml:"strategy"`
	// Ratio is the split ratio for new dwindle containers.
	Ratio float64 `yaml:"ratio"`
	// SmartSplit picks the dwindle split axis from the leaf's shape instead
	// of alternating with depth.
	SmartSplit bool `yaml:"smart_split"`
	// MasterFactor is the master region's share of the workspace width.
	MasterFactor float64 `yaml:"master_factor"`
	// MasterCount is the number of windows in the master region.
	MasterCount int `yaml:"master_count"`
	// StackAxis is "vertical" (side by side) or "horizontal" (stacked).
	StackAxis string `yaml:"stack_axis"`
}

// Rule is one window rule. Class and title are anchored regular
// expressions; empty patterns match everything.
type Rule struct {
	Class      string   `yaml:"class,omitempty"`
	Title      string   `yaml:"title,omitempty"`
	Skip       bool     `yaml:"skip,omitempty"`
	Workspace  *int     `yaml:"workspace,omitempty"`
	Monitor    *int     `yaml:"monitor,omitempty"`
	Floating   bool     `yaml:"floating,omitempty"`
	Fullscreen bool     `yaml:"fullscreen,omitempty"`
	NoFocus    bool     `yaml:"no_focus,omitempty"`
	Opacity    *float64 `yaml:"opacity,omitempty"`
}

// Config is the daemon configuration.
type Config struct {
	// Workspaces is the size of the fixed workspace pool.
	Workspaces int `yaml:"workspaces"`

	Gaps   Gaps   `yaml:"gaps"`
	Layout Layout `yaml:"layout"`

	// MinimizedReserveSpace keeps a minimized tiled window's slot occupied
	// until restore or unmanage.
	MinimizedReserveSpace *bool `yaml:"minimized_reserve_space"`

	Rules []Rule `yaml:"rules,omitempty"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	reserve := true
	return &Config{
		Workspaces: 9,
		Gaps:       Gaps{Inner: 8, Outer: 8},
		Layout: Layout{
			Strategy:     layout.NameDwindle,
			Ratio:        0.5,
			SmartSplit:   true,
			MasterFactor: 0.55,
			MasterCount:  1,
			StackAxis:    "horizontal",
		},
		MinimizedReserveSpace: &reserve,
		LogLevel:              "info",
	}
}

// Validate checks cross-field consistency. Out-of-range ratios are left
// alone here; the layout layer clamps them.
func (c *Config) Validate() error {
	if c.Workspaces < 1 {
		return fmt.Errorf("workspaces: must be at least 1, got %d", c.Workspaces)
	}
	if c.Gaps.Inner < 0 || c.Gaps.Outer < 0 {
		return fmt.Errorf("gaps: must not be negative, got inner=%d outer=%d", c.Gaps.Inner, c.Gaps.Outer)
	}
	switch c.Layout.Strategy {
	case layout.NameDwindle, layout.NameMasterStack:
	default:
		return fmt.Errorf("layout.strategy: unknown strategy %q", c.Layout.Strategy)
	}
	switch c.Layout.StackAxis {
	case "", "vertical", "horizontal":
	default:
		return fmt.Errorf("layout.stack_axis: must be vertical or horizontal, got %q", c.Layout.StackAxis)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	for i, r := range c.Rules {
		if r.Opacity != nil && (*r.Opacity < 0 || *r.Opacity > 1) {
			return fmt.Errorf("rules[%d].opacity: must be in [0, 1], got %v", i, *r.Opacity)
		}
	}
	return nil
}

// StrategyParams converts the layout section into strategy tunables.
func (c *Config) StrategyParams() layout.Params {
	axis := geometry.Horizontal
	if c.Layout.StackAxis == "vertical" {
		axis = geometry.Vertical
	}
	return layout.Params{
		Ratio:        c.Layout.Ratio,
		SmartSplit:   c.Layout.SmartSplit,
		MasterFactor: c.Layout.MasterFactor,
		MasterCount:  c.Layout.MasterCount,
		StackAxis:    axis,
	}
}

// EngineRules converts the rule section into matcher rules.
func (c *Config) EngineRules() []rules.Rule {
	out := make([]rules.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		out = append(out, rules.Rule{
			Class:      r.Class,
			Title:      r.Title,
			Skip:       r.Skip,
			Workspace:  r.Workspace,
			Monitor:    r.Monitor,
			Floating:   r.Floating,
			Fullscreen: r.Fullscreen,
			NoFocus:    r.NoFocus,
			Opacity:    r.Opacity,
		})
	}
	return out
}

// ReserveMinimized resolves the minimized-space policy, defaulting to true.
func (c *Config) ReserveMinimized() bool {
	if c.MinimizedReserveSpace == nil {
		return true
	}
	return *c.MinimizedReserveSpace
}
