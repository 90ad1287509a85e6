package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

// Presets are keyed by law then preset name.
var Presets = map[string]map[string]*Config{
	"kuramoto1": {
		"sync": preset(func(c *Config) {
			c.Model = "kuramoto1"
			c.Coupling = 2.0
			c.Time = TimeConfig{Stop: 50, Step: 0.5}
			c.NodeParameters = RangeConfig{Low: 1, High: 1.5}
		}),
		"incoherent": preset(func(c *Config) {
			c.Model = "kuramoto1"
			c.Coupling = 0.05
			c.Time = TimeConfig{Stop: 50, Step: 0.5}
		}),
		"sparse": preset(func(c *Config) {
			c.Model = "kuramoto1"
			c.Nodes = 25
			c.Graph = GraphConfig{Archetype: "fixed_density", Sparsity: 0.7}
		}),
	},
	"kuramoto2": {
		"default": preset(func(c *Config) {
			c.Model = "kuramoto2"
			c.InitialValues = RangeConfig{Low: 1, High: 31}
		}),
		"nested": preset(func(c *Config) {
			c.Model = "kuramoto2"
			c.Graph = GraphConfig{Archetype: "fully_nested"}
		}),
		"large": preset(func(c *Config) {
			c.Model = "kuramoto2"
			c.Nodes = 25
			c.InitialValues = RangeConfig{Low: 1, High: 31}
		}),
	},
	"michaelis_menten": {
		"default": preset(func(c *Config) {
			c.Model = "michaelis_menten"
			c.Time = TimeConfig{Stop: 20, Step: 0.1}
		}),
		"sparse": preset(func(c *Config) {
			c.Model = "michaelis_menten"
			c.Nodes = 20
			c.Time = TimeConfig{Stop: 20, Step: 0.1}
			c.Graph = GraphConfig{Archetype: "fixed_density", Sparsity: 0.8}
		}),
	},
	"roessler": {
		"chaos": preset(func(c *Config) {
			c.Model = "roessler"
			c.Nodes = 5
			c.Coupling = 0.1
			c.Time = TimeConfig{Stop: 200, Step: 0.5}
			c.MaxStep = 0.005
		}),
		"uncoupled": preset(func(c *Config) {
			c.Model = "roessler"
			c.Nodes = 3
			c.Coupling = 0
			c.Time = TimeConfig{Stop: 100, Step: 0.5}
			c.MaxStep = 0.005
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for a law in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
