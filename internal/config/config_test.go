package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cascadewm/cascade/internal/geometry"
	"github.com/cascadewm/cascade/internal/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Workspaces != 9 || cfg.Layout.Strategy != layout.NameDwindle {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if !cfg.ReserveMinimized() {
		t.Fatal("minimized reservation should default to true")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workspaces: 4
gaps:
  inner: 10
  outer: 20
layout:
  strategy: master_stack
  master_factor: 0.6
  master_count: 2
  stack_axis: vertical
minimized_reserve_space: false
log_level: debug
rules:
  - class: mpv
    floating: true
  - class: slack
    workspace: 3
    no_focus: true
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Workspaces != 4 || cfg.Gaps.Inner != 10 || cfg.Gaps.Outer != 20 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ReserveMinimized() {
		t.Fatal("minimized_reserve_space: false not applied")
	}

	params := cfg.StrategyParams()
	if params.MasterFactor != 0.6 || params.MasterCount != 2 || params.StackAxis != geometry.Vertical {
		t.Fatalf("params = %+v", params)
	}

	engineRules := cfg.EngineRules()
	if len(engineRules) != 2 || !engineRules[0].Floating || *engineRules[1].Workspace != 3 {
		t.Fatalf("rules = %+v", engineRules)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "workspacez: 3\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workspaces", func(c *Config) { c.Workspaces = 0 }},
		{"negative gap", func(c *Config) { c.Gaps.Inner = -1 }},
		{"unknown strategy", func(c *Config) { c.Layout.Strategy = "spiral" }},
		{"bad stack axis", func(c *Config) { c.Layout.StackAxis = "diagonal" }},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"opacity out of range", func(c *Config) {
			o := 1.5
			c.Rules = []Rule{{Class: "x", Opacity: &o}}
		}},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
