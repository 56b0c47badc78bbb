package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// PaletteKind selects the palette implementation
type PaletteKind string

const (
	PaletteRainbow  PaletteKind = "rainbow"
	PaletteGradient PaletteKind = "gradient"
	PaletteNoise    PaletteKind = "noise"
)

// PaletteConfig describes the color field patterns look up
type PaletteConfig struct {
	Kind   PaletteKind `json:"kind"`
	GPL    string      `json:"gpl,omitempty"`    // GIMP palette file, read by gradient and noise
	Axis   [3]float64  `json:"axis,omitempty"`   // gradient direction
	Spread float64     `json:"spread,omitempty"` // gradient repeats across the model
	Seed   int64       `json:"seed,omitempty"`   // noise
	Scale  float64     `json:"scale,omitempty"`  // noise
}

// MidiConfig maps control change numbers to parameter keys
type MidiConfig struct {
	Enabled bool              `json:"enabled"`
	Port    string            `json:"port,omitempty"` // substring of the input port name, first port if empty
	CC      map[string]string `json:"cc,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Pattern    string             `json:"pattern"`
	FPS        int                `json:"fps"`
	Model      string             `json:"model"`
	Palette    PaletteConfig      `json:"palette"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Midi       MidiConfig         `json:"midi"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Pattern: "sine-palette",
		FPS:     60,
		Model:   "work/grid.json",
		Palette: PaletteConfig{
			Kind:   PaletteRainbow,
			Axis:   [3]float64{0, 1, 0},
			Spread: 1,
			Scale:  0.1,
		},
		Midi: MidiConfig{
			CC: map[string]string{"21": "period"},
		},
	}
}

// Load reads the config from path, or returns defaults if not found.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	// maps would otherwise merge with the defaults
	defaultCC := cfg.Midi.CC
	cfg.Midi.CC = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Midi.CC == nil {
		cfg.Midi.CC = defaultCC
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first malformed field
func (c *Config) Validate() error {
	if c.FPS < 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	switch c.Palette.Kind {
	case PaletteRainbow, PaletteGradient, PaletteNoise:
	default:
		return fmt.Errorf("unknown palette kind %q", c.Palette.Kind)
	}
	for cc := range c.Midi.CC {
		if _, err := ParseCC(cc); err != nil {
			return err
		}
	}
	return nil
}

// ParameterJSON returns initial parameter values for the engine
func (c *Config) ParameterJSON() json.RawMessage {
	if len(c.Parameters) == 0 {
		return nil
	}
	bytes, err := json.Marshal(c.Parameters)
	if err != nil {
		panic(err)
	}
	return bytes
}

// ParseCC parses a control change number in 0-127
func ParseCC(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 7)
	if err != nil {
		return 0, fmt.Errorf("invalid cc number %q: %w", s, err)
	}
	return uint8(v), nil
}
