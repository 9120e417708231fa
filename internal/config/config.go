// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Debug     bool            `yaml:"debug"`
	Panel     PanelConfig     `yaml:"panel"`
	Fonts     FontsConfig     `yaml:"fonts"`
	Splash    string          `yaml:"splash"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
	Transport TransportConfig `yaml:"transport"`
	Input     InputConfig     `yaml:"input"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// ---- PANEL ----

type PanelConfig struct {
	// Headless renders to memory only; the HTTP preview still works.
	Headless bool   `yaml:"headless"`
	I2CBus   string `yaml:"i2c_bus"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Rotated  bool   `yaml:"rotated"`
	Contrast uint8  `yaml:"contrast"`
}

// ---- FONTS ----

type FontsConfig struct {
	Normal FontConfig `yaml:"normal"`
	Large  FontConfig `yaml:"large"`
}

type FontConfig struct {
	Path string  `yaml:"path"`
	Size float64 `yaml:"size"`
}

// ---- TIMEOUTS ----

type TimeoutsConfig struct {
	StaleMs int `yaml:"stale_ms"`
	IdleMs  int `yaml:"idle_ms"`
	TickMs  int `yaml:"tick_ms"`
}

func (t TimeoutsConfig) Stale() time.Duration { return time.Duration(t.StaleMs) * time.Millisecond }
func (t TimeoutsConfig) Idle() time.Duration  { return time.Duration(t.IdleMs) * time.Millisecond }
func (t TimeoutsConfig) Tick() time.Duration  { return time.Duration(t.TickMs) * time.Millisecond }

// ---- TRANSPORT ----

type TransportConfig struct {
	Serial *SerialConfig `yaml:"serial"`
	Hidraw string        `yaml:"hidraw"`
	File   string        `yaml:"file"`
}

type SerialConfig struct {
	Address   string `yaml:"address"`
	BaudRate  int    `yaml:"baud_rate"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- INPUT ----

type InputConfig struct {
	Device string `yaml:"device"`
	Grab   bool   `yaml:"grab"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads, decodes and defaults the config file. Call Validate after.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}
